package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"netdev-go/api"
	"netdev-go/internal/config"
	"netdev-go/internal/logger"
	"netdev-go/internal/metrics"
	"netdev-go/internal/observability"
	"netdev-go/internal/platform"
	"netdev-go/internal/state"
	"netdev-go/pkg/capture"
	"netdev-go/pkg/ethernet"
	"netdev-go/pkg/ipv4"
	"netdev-go/pkg/netdev"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.Logging.Level)
	log.Info("config loaded", map[string]any{"path": *configPath})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metricsSrv := metrics.New()
	go func() {
		if err := metrics.StartServer(ctx, cfg.Metrics); err != nil {
			log.Error("metrics server error", map[string]any{"err": err.Error()})
		}
	}()
	metrics.StartRemoteWrite(ctx, cfg.Metrics.Export, metricsSrv)

	registry := netdev.NewRegistry()
	prometheus.MustRegister(metrics.NewAdapterCollector(registry))

	loop := netdev.NewLoopback(registry)
	loop.SetOnDrop(metricsSrv.IncRxDrops)
	defer loop.Close()

	var capWriter *capture.Writer
	if cfg.Capture.Enabled {
		capWriter, err = capture.NewWriter(cfg.Capture.Path, uint32(cfg.Capture.SnapLen))
		if err != nil {
			log.Error("capture unavailable", map[string]any{"err": err.Error()})
		} else {
			defer capWriter.Close()
		}
	}

	buildAdapters(ctx, cfg, registry, metricsSrv, capWriter, log)

	registry.ForEach(func(a *netdev.Adapter) {
		go runDrain(ctx, a, log)
	})

	stateStore := state.NewStore(cfg.State.Path)
	if last, err := stateStore.Load(); err != nil {
		log.Warn("state load failed", map[string]any{"err": err.Error()})
	} else if last != nil {
		log.Info("previous adapter state", map[string]any{"adapters": len(last)})
	}
	go runStateSaver(ctx, stateStore, registry, cfg.State, log)

	traces := observability.NewStore(0)
	alerts := observability.NewAlertStore(0)
	go runAlertLoop(ctx, metricsSrv, alerts, cfg.Alerts, log)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(api.TraceMiddleware(traces))
	router.Use(api.AuthMiddleware(cfg.Security, log))
	router.Use(api.AuditMiddleware(log))
	handlers := &api.Handlers{
		Registry:      registry,
		Metrics:       metricsSrv,
		Observability: traces,
		Alerts:        alerts,
	}
	api.RegisterRoutes(router, handlers)
	api.RegisterPprof(router, "/debug/pprof")

	go func() {
		if err := router.Run(cfg.API.Address); err != nil {
			log.Error("api server error", map[string]any{"err": err.Error()})
		}
	}()

	<-ctx.Done()
	if err := stateStore.Save(state.Collect(registry)); err != nil {
		log.Warn("final state save failed", map[string]any{"err": err.Error()})
	}
	log.Info("shutdown", nil)
}

func buildAdapters(
	ctx context.Context,
	cfg *config.Config,
	registry *netdev.Registry,
	metricsSrv *metrics.Metrics,
	capWriter *capture.Writer,
	log *logger.Logger,
) {
	for _, ac := range cfg.Adapters {
		if ac.Driver == "loopback" {
			continue
		}

		tap, err := platform.OpenTap(ac.Name)
		if err != nil {
			log.Warn("tap unavailable", map[string]any{"name": ac.Name, "err": err.Error()})
			continue
		}

		var sender netdev.RawSender = platform.Sender(tap)
		if capWriter != nil {
			sender = capture.NewTapSender(sender, capWriter)
		}
		sender = meteredSender{next: sender, m: metricsSrv}

		adapter := netdev.New(registry, sender, adapterConfig(ac, log))
		adapter.SetName(ac.Name)
		adapter.SetOnDrop(metricsSrv.IncRxDrops)
		applyAddressing(adapter, ac, log)

		dev := meteredDevice{Device: tap, m: metricsSrv, capture: capWriter}
		go func(name string) {
			if err := platform.Serve(ctx, dev, adapter); err != nil {
				log.Error("adapter receive loop", map[string]any{"name": name, "err": err.Error()})
			}
			adapter.Close()
		}(ac.Name)

		log.Info("adapter up", map[string]any{"name": ac.Name, "mtu": adapter.MTU()})
	}
}

func adapterConfig(ac config.AdapterConfig, log *logger.Logger) netdev.Config {
	out := netdev.Config{
		MTU:           ac.MTU,
		QueueCapacity: ac.QueueCapacity,
	}
	if ac.MAC != "" {
		hw, err := ethernet.ParseHardwareAddr(ac.MAC)
		if err != nil {
			log.Warn("invalid mac", map[string]any{"name": ac.Name, "mac": ac.MAC})
		} else {
			out.HardwareAddr = hw
		}
	}
	return out
}

func applyAddressing(a *netdev.Adapter, ac config.AdapterConfig, log *logger.Logger) {
	if ac.IP != "" {
		addr, err := ipv4.ParseAddr(ac.IP)
		if err != nil {
			log.Warn("invalid ip", map[string]any{"name": ac.Name, "ip": ac.IP})
		} else {
			a.SetIPv4Address(addr)
		}
	}
	if ac.Netmask != "" {
		mask, err := ipv4.ParseAddr(ac.Netmask)
		if err != nil {
			log.Warn("invalid netmask", map[string]any{"name": ac.Name, "netmask": ac.Netmask})
		} else {
			a.SetIPv4Netmask(mask)
		}
	}
	if ac.Gateway != "" {
		gw, err := ipv4.ParseAddr(ac.Gateway)
		if err != nil {
			log.Warn("invalid gateway", map[string]any{"name": ac.Name, "gateway": ac.Gateway})
		} else {
			a.SetIPv4Gateway(gw)
		}
	}
}

// meteredSender feeds the process-wide transmit counters from every
// outgoing frame.
type meteredSender struct {
	next netdev.RawSender
	m    *metrics.Metrics
}

func (s meteredSender) SendRaw(frame []byte) error {
	if err := s.next.SendRaw(frame); err != nil {
		s.m.IncTxErrors()
		return err
	}
	s.m.IncTxPackets()
	s.m.AddTxBytes(len(frame))
	if isFragment(frame) {
		s.m.IncTxFragments()
	}
	return nil
}

func isFragment(frame []byte) bool {
	eth, err := ethernet.NewFrame(frame)
	if err != nil || eth.EtherType() != ethernet.TypeIPv4 {
		return false
	}
	ip, err := ipv4.NewFrame(eth.Payload())
	if err != nil {
		return false
	}
	return ip.MoreFragments() || ip.FragmentOffset() > 0
}

// meteredDevice feeds the receive counters and the capture file from
// every inbound frame before it reaches the adapter queue.
type meteredDevice struct {
	platform.Device
	m       *metrics.Metrics
	capture *capture.Writer
}

func (d meteredDevice) Read(b []byte) (int, error) {
	n, err := d.Device.Read(b)
	if err != nil || n == 0 {
		return n, err
	}
	d.m.IncRxPackets()
	d.m.AddRxBytes(n)
	if d.capture != nil {
		_ = d.capture.WriteFrame(b[:n])
	}
	return n, err
}

// runDrain consumes the adapter's receive queue so sustained inbound
// traffic cannot pin it at capacity. The daemon is the end of the line
// for these packets; a host stack would take them from here.
func runDrain(ctx context.Context, a *netdev.Adapter, log *logger.Logger) {
	notify := make(chan struct{}, 1)
	a.SetOnReceive(func() {
		select {
		case notify <- struct{}{}:
		default:
		}
	})

	buf := make([]byte, a.MTU()+ethernet.HeaderSize)
	name := a.Name()
	for {
		select {
		case <-ctx.Done():
			return
		case <-notify:
			for {
				n, ts := a.DequeuePacket(buf)
				if n == 0 {
					break
				}
				log.Debug("packet drained", map[string]any{
					"adapter": name,
					"bytes":   n,
					"age_ms":  time.Since(ts).Milliseconds(),
				})
			}
		}
	}
}

func runStateSaver(ctx context.Context, store *state.Store, registry *netdev.Registry, cfg config.StateConfig, log *logger.Logger) {
	interval := time.Duration(cfg.IntervalSeconds) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := store.Save(state.Collect(registry)); err != nil {
				log.Warn("state save failed", map[string]any{"err": err.Error()})
			}
		}
	}
}

func runAlertLoop(ctx context.Context, m *metrics.Metrics, alerts *observability.AlertStore, cfg config.AlertsConfig, log *logger.Logger) {
	if cfg.RxDropsThreshold == 0 && cfg.TxErrorsThreshold == 0 {
		return
	}
	acfg := observability.AlertsConfig{
		RxDropsThreshold:  cfg.RxDropsThreshold,
		TxErrorsThreshold: cfg.TxErrorsThreshold,
	}
	prev := m.Snapshot()
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			curr := m.Snapshot()
			for _, alert := range observability.EvaluateAlerts(prev, curr, acfg) {
				alerts.Add(alert)
				log.Warn(alert.Message, map[string]any{
					"type":      string(alert.Type),
					"value":     alert.Value,
					"threshold": alert.Threshold,
				})
			}
			prev = curr
		}
	}
}
