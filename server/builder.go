package server

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/SaiNageswarS/go-mini-boot/config"
	"github.com/SaiNageswarS/go-mini-boot/di"
	"github.com/SaiNageswarS/go-mini-boot/discovery"
	"github.com/SaiNageswarS/go-mini-boot/logger"
	"github.com/SaiNageswarS/go-mini-boot/registry"
	"github.com/SaiNageswarS/go-mini-boot/router"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ─── public fluent builder ───────────────────────────────────
type Builder struct {
	cfg     config.BootConfig
	catalog *discovery.Catalog
}

func New() *Builder {
	return &Builder{
		cfg:     config.Default(),
		catalog: discovery.NewCatalog(),
	}
}

// ----- basic wiring ----------------------------------------------------------

// Config replaces every setting at once, typically with the result of config.LoadConfig.
func (b *Builder) Config(cfg config.BootConfig) *Builder { b.cfg = cfg; return b }

func (b *Builder) Port(p string) *Builder { b.cfg.Port = p; return b }
func (b *Builder) ScanRoot(root string) *Builder { b.cfg.ScanRoot = root; return b }
func (b *Builder) MetricsPort(p string) *Builder { b.cfg.MetricsPort = p; return b }
func (b *Builder) PrettyJSON(on bool) *Builder { b.cfg.PrettyJSON = on; return b }
func (b *Builder) AcceptRate(perSec float64) *Builder { b.cfg.AcceptRate = perSec; return b }
func (b *Builder) MaxBodyBytes(n int64) *Builder { b.cfg.MaxBodyBytes = n; return b }

// ----- components ------------------------------------------------------------

// Catalog replaces the catalog components are scanned from.
func (b *Builder) Catalog(c *discovery.Catalog) *Builder {
	if c == nil {
		logger.Fatal("catalog must not be nil")
		return b
	}
	b.catalog = c
	return b
}

// Register adds descriptors to the current catalog.
func (b *Builder) Register(descriptors ...discovery.Descriptor) *Builder {
	b.catalog.Add(descriptors...)
	return b
}

// ----- startup ---------------------------------------------------------------

// Runtime is the wired application: scanned metadata, the registry, the
// injection engine and the route table.
type Runtime struct {
	Scan     *discovery.ScanResult
	Registry *registry.Registry
	Engine   *di.Engine
	Router   *router.Router
}

// Assemble scans the catalog, initializes dependencies and registers one
// route per controller operation. It does not open any listener.
func (b *Builder) Assemble() (*Runtime, error) {
	scan, err := discovery.NewScanner(b.catalog).Scan(b.cfg.ScanRoot)
	if err != nil {
		return nil, err
	}

	reg := registry.New()
	engine := di.NewEngine(reg)
	if err := engine.Initialize(scan); err != nil {
		return nil, err
	}

	rt := router.New(engine)
	for _, c := range scan.Controllers {
		for _, op := range scan.Operations[c.Type] {
			if err := rt.Register(op.Method, op.Path, c.Type, op.Name, op.Invoke); err != nil {
				return nil, fmt.Errorf("controller %s: %w", c.Name(), err)
			}
			logger.Info("Registered route",
				zap.String("method", op.Method),
				zap.String("path", op.Path),
				zap.String("controller", c.Name()),
				zap.String("operation", op.Name))
		}
	}

	return &Runtime{Scan: scan, Registry: reg, Engine: engine, Router: rt}, nil
}

// Build assembles the runtime and opens the listeners. Nothing is served
// until Serve is called.
func (b *Builder) Build() (*BootServer, error) {
	if b.cfg.Port == "" {
		return nil, errors.New("port must be set")
	}

	runtime, err := b.Assemble()
	if err != nil {
		return nil, err
	}

	ln, err := net.Listen("tcp", b.cfg.Port)
	if err != nil {
		return nil, err
	}

	s := &BootServer{
		runtime:  runtime,
		listener: ln,
		metrics:  newMetrics(),
		pretty:   b.cfg.PrettyJSON,
		maxBody:  b.cfg.MaxBodyBytes,
	}

	if b.cfg.AcceptRate > 0 {
		burst := int(b.cfg.AcceptRate)
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(b.cfg.AcceptRate), burst)
	}

	if b.cfg.MetricsPort != "" {
		lnMetrics, err := net.Listen("tcp", b.cfg.MetricsPort)
		if err != nil {
			ln.Close()
			return nil, err
		}
		s.metricsListener = lnMetrics
		s.metricsSrv = &http.Server{
			Handler:      s.metrics.handler(),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		}
	}

	return s, nil
}
