package api

import (
	"net/http"

	"netdev-go/internal/metrics"
	"netdev-go/internal/observability"
	"netdev-go/pkg/ethernet"
	"netdev-go/pkg/ipv4"
	"netdev-go/pkg/netdev"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Registry      *netdev.Registry
	Metrics       *metrics.Metrics
	Observability *observability.Store
	Alerts        *observability.AlertStore
}

type adapterView struct {
	Name         string `json:"name"`
	HardwareAddr string `json:"hardware_addr"`
	IPv4Address  string `json:"ipv4_address"`
	IPv4Netmask  string `json:"ipv4_netmask"`
	IPv4Gateway  string `json:"ipv4_gateway"`
	MTU          int    `json:"mtu"`
	Loopback     bool   `json:"loopback"`
	QueueLength  int    `json:"queue_length"`
	PacketsIn    uint64 `json:"packets_in"`
	BytesIn      uint64 `json:"bytes_in"`
	PacketsOut   uint64 `json:"packets_out"`
	BytesOut     uint64 `json:"bytes_out"`
	RxDrops      uint64 `json:"rx_drops"`
	FragmentsOut uint64 `json:"fragments_out"`
}

func viewOf(a *netdev.Adapter) adapterView {
	st := a.Stats()
	return adapterView{
		Name:         a.Name(),
		HardwareAddr: a.HardwareAddr().String(),
		IPv4Address:  a.IPv4Address().String(),
		IPv4Netmask:  a.IPv4Netmask().String(),
		IPv4Gateway:  a.IPv4Gateway().String(),
		MTU:          a.MTU(),
		Loopback:     a.IsLoopback(),
		QueueLength:  a.QueueLength(),
		PacketsIn:    st.PacketsIn,
		BytesIn:      st.BytesIn,
		PacketsOut:   st.PacketsOut,
		BytesOut:     st.BytesOut,
		RxDrops:      st.RxDrops,
		FragmentsOut: st.FragmentsOut,
	}
}

func (h *Handlers) GetAdapters(c *gin.Context) {
	out := make([]adapterView, 0, h.Registry.Len())
	h.Registry.ForEach(func(a *netdev.Adapter) {
		out = append(out, viewOf(a))
	})
	c.JSON(http.StatusOK, out)
}

func (h *Handlers) GetAdapter(c *gin.Context) {
	a := h.Registry.FindByName(c.Param("name"))
	if a == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "adapter not found"})
		return
	}
	c.JSON(http.StatusOK, viewOf(a))
}

func (h *Handlers) SetAdapterIPv4(c *gin.Context) {
	a := h.Registry.FindByName(c.Param("name"))
	if a == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "adapter not found"})
		return
	}

	var req struct {
		Address string `json:"address"`
		Netmask string `json:"netmask"`
		Gateway string `json:"gateway"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	if req.Address != "" {
		addr, err := ipv4.ParseAddr(req.Address)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address"})
			return
		}
		a.SetIPv4Address(addr)
	}
	if req.Netmask != "" {
		mask, err := ipv4.ParseAddr(req.Netmask)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid netmask"})
			return
		}
		a.SetIPv4Netmask(mask)
	}
	if req.Gateway != "" {
		gw, err := ipv4.ParseAddr(req.Gateway)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid gateway"})
			return
		}
		a.SetIPv4Gateway(gw)
	}
	c.JSON(http.StatusOK, viewOf(a))
}

func (h *Handlers) SetAdapterHardwareAddr(c *gin.Context) {
	a := h.Registry.FindByName(c.Param("name"))
	if a == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "adapter not found"})
		return
	}

	var req struct {
		HardwareAddr string `json:"hardware_addr"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	hw, err := ethernet.ParseHardwareAddr(req.HardwareAddr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hardware address"})
		return
	}
	a.SetHardwareAddr(hw)
	c.JSON(http.StatusOK, viewOf(a))
}

func (h *Handlers) GetStats(c *gin.Context) {
	snapshot := h.Metrics.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"status":             "ok",
		"adapters_count":     h.Registry.Len(),
		"rx_packets_total":   snapshot.RxPackets,
		"rx_bytes_total":     snapshot.RxBytes,
		"tx_packets_total":   snapshot.TxPackets,
		"tx_bytes_total":     snapshot.TxBytes,
		"rx_drops_total":     snapshot.RxDrops,
		"tx_fragments_total": snapshot.TxFragments,
		"tx_errors_total":    snapshot.TxErrors,
	})
}
