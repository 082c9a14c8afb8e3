package di

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/SaiNageswarS/go-mini-boot/bootErrors"
	"github.com/SaiNageswarS/go-mini-boot/discovery"
	"github.com/SaiNageswarS/go-mini-boot/registry"
	"github.com/SaiNageswarS/go-mini-boot/testutil"
	"github.com/SaiNageswarS/go-mini-boot/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

/* ───────────────────────── fixtures ─────────────────────────── */

type store interface{ Name() string }

type memStore struct{ id int }

func (m *memStore) Name() string { return "mem" }

type diskStore struct{ path string }

func (d *diskStore) Name() string { return "disk" }

type counter struct{ n int }

type ticket struct{ seq int }

type catalogService struct {
	store   store
	counter *counter
	ticket  *ticket
}

type homeController struct {
	svc *catalogService
}

func (h *homeController) index(_ *web.Request) (web.Response, error) {
	return web.JSON(h.svc.store.Name()), nil
}

func wired() []discovery.Descriptor {
	return []discovery.Descriptor{
		discovery.Define[memStore]("t/store", discovery.Component).
			Qualified("mem", discovery.TypeOf[store]()).Descriptor(),
		discovery.Define[diskStore]("t/store", discovery.Component).
			Qualified("disk", discovery.TypeOf[store]()).Descriptor(),
		discovery.Define[counter]("t/support", discovery.Bean).Descriptor(),
		discovery.Define[ticket]("t/support", discovery.Component).Descriptor(),
		discovery.Define[catalogService]("t/service", discovery.Service).
			Autowired(
				discovery.Wire("store", "mem", func(s *catalogService, st store) { s.store = st }).Verbose(),
				discovery.Wire("counter", "", func(s *catalogService, c *counter) { s.counter = c }),
				discovery.Wire("ticket", "", func(s *catalogService, tk *ticket) { s.ticket = tk }),
			).Descriptor(),
		discovery.Define[homeController]("t/web", discovery.Controller).
			Autowired(discovery.Wire("svc", "", func(h *homeController, s *catalogService) { h.svc = s })).
			GET("/", "index", (*homeController).index).
			Descriptor(),
	}
}

func build(descs ...discovery.Descriptor) (*Engine, error) {
	scan, err := discovery.NewScanner(discovery.NewCatalog().Add(descs...)).Scan("t")
	if err != nil {
		return nil, err
	}
	e := NewEngine(registry.New())
	return e, e.Initialize(scan)
}

/* ───────────────────────── suite ─────────────────────────── */

type EngineTestSuite struct {
	suite.Suite
	engine *Engine
}

func (s *EngineTestSuite) SetupTest() {
	e, err := build(wired()...)
	s.Require().NoError(err)
	s.engine = e
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func (s *EngineTestSuite) TestStartupOrdering() {
	reg := s.engine.Registry()

	impl, err := reg.ResolveImplementation(discovery.TypeOf[store](), "mem")
	s.NoError(err)
	s.Equal(reflect.TypeOf(&memStore{}), impl)

	s.True(reg.HasSingleton(reflect.TypeOf(&catalogService{})), "services are eager")
	s.True(reg.HasSingleton(reflect.TypeOf(&counter{})), "singleton beans are eager")
	s.False(reg.HasSingleton(reflect.TypeOf(&memStore{})), "components are never cached")
	s.False(reg.HasSingleton(reflect.TypeOf(&homeController{})), "controllers live in their own cache")
}

func (s *EngineTestSuite) TestSingletonIdentity() {
	first, err := Resolve[*catalogService](s.engine)
	s.Require().NoError(err)
	second, err := Resolve[*catalogService](s.engine)
	s.Require().NoError(err)
	s.Same(first, second)

	c, err := Resolve[*counter](s.engine)
	s.Require().NoError(err)
	s.Same(first.counter, c)
}

func (s *EngineTestSuite) TestPrototypeDistinct() {
	a, err := Resolve[*ticket](s.engine)
	s.Require().NoError(err)
	b, err := Resolve[*ticket](s.engine)
	s.Require().NoError(err)
	s.NotSame(a, b)
}

func (s *EngineTestSuite) TestInterfaceFieldResolvedByQualifier() {
	svc, err := Resolve[*catalogService](s.engine)
	s.Require().NoError(err)
	s.IsType(&memStore{}, svc.store)
	s.NotNil(svc.ticket)

	disk, err := ResolveQualified[store](s.engine, "disk")
	s.Require().NoError(err)
	s.Equal("disk", disk.Name())

	_, err = ResolveQualified[store](s.engine, "cloud")
	var nf *registry.BindingNotFoundError
	s.True(errors.As(err, &nf))
}

func (s *EngineTestSuite) TestControllerCachedAndInjected() {
	ct := reflect.TypeOf(&homeController{})

	first, err := s.engine.Controller(ct)
	s.Require().NoError(err)
	second, err := s.engine.Controller(ct)
	s.Require().NoError(err)
	s.Same(first, second)

	svc, _ := Resolve[*catalogService](s.engine)
	s.Same(svc, first.(*homeController).svc)

	viaInstantiate, err := s.engine.Instantiate(ct)
	s.Require().NoError(err)
	s.Same(first, viaInstantiate)
}

func (s *EngineTestSuite) TestControllerRejectsNonController() {
	_, err := s.engine.Controller(reflect.TypeOf(&catalogService{}))
	s.ErrorIs(err, bootErrors.ErrResolution)

	_, err = s.engine.Controller(reflect.TypeOf(0))
	var unknown *UnknownComponentError
	s.True(errors.As(err, &unknown))
}

func (s *EngineTestSuite) TestUnknownComponent() {
	type stranger struct{ x int }
	_, err := Resolve[*stranger](s.engine)

	var unknown *UnknownComponentError
	s.Require().True(errors.As(err, &unknown))
	s.ErrorIs(err, bootErrors.ErrResolution)
}

/* ───────────────────────── cycles ─────────────────────────── */

type alpha struct{ beta *beta }
type beta struct{ alpha *alpha }

type ping struct{ pong *pong }
type pong struct{ ping *ping }

func TestCyclicSingletonsResolve(t *testing.T) {
	e, err := build(
		discovery.Define[alpha]("t", discovery.Service).
			Autowired(discovery.Wire("beta", "", func(a *alpha, b *beta) { a.beta = b })).Descriptor(),
		discovery.Define[beta]("t", discovery.Service).
			Autowired(discovery.Wire("alpha", "", func(b *beta, a *alpha) { b.alpha = a })).Descriptor(),
	)
	require.NoError(t, err)

	a, err := Resolve[*alpha](e)
	require.NoError(t, err)
	b, err := Resolve[*beta](e)
	require.NoError(t, err)

	assert.Same(t, b, a.beta)
	assert.Same(t, a, b.alpha)
}

func TestCyclicPrototypesFail(t *testing.T) {
	descs := []discovery.Descriptor{
		discovery.Define[ping]("t", discovery.Component).
			Autowired(discovery.Wire("pong", "", func(p *ping, q *pong) { p.pong = q })).Descriptor(),
		discovery.Define[pong]("t", discovery.Component).
			Autowired(discovery.Wire("ping", "", func(q *pong, p *ping) { q.ping = p })).Descriptor(),
	}
	e, err := build(descs...)
	require.NoError(t, err, "components are lazy so startup succeeds")

	_, err = Resolve[*ping](e)
	require.Error(t, err)

	var cyc *CircularDependencyError
	require.True(t, errors.As(err, &cyc))
	assert.Equal(t, "*di.ping", cyc.Type)
	assert.Equal(t, []string{"*di.ping", "*di.pong", "*di.ping"}, cyc.Chain)
	assert.ErrorIs(t, err, bootErrors.ErrResolution)
}

func TestCyclicPrototypeInsideServiceFailsStartup(t *testing.T) {
	type holder struct{ p *ping }
	_, err := build(
		discovery.Define[ping]("t", discovery.Component).
			Autowired(discovery.Wire("pong", "", func(p *ping, q *pong) { p.pong = q })).Descriptor(),
		discovery.Define[pong]("t", discovery.Component).
			Autowired(discovery.Wire("ping", "", func(q *pong, p *ping) { q.ping = p })).Descriptor(),
		discovery.Define[holder]("t", discovery.Service).
			Autowired(discovery.Wire("p", "", func(h *holder, p *ping) { h.p = p })).Descriptor(),
	)

	var cyc *CircularDependencyError
	assert.True(t, errors.As(err, &cyc))
}

func TestInFlightSetIsPerCall(t *testing.T) {
	// Two sibling fields of the same prototype type are not a cycle.
	type pair struct{ a, b *ticket }
	e, err := build(
		discovery.Define[ticket]("t", discovery.Component).Descriptor(),
		discovery.Define[pair]("t", discovery.Component).
			Autowired(
				discovery.Wire("a", "", func(p *pair, tk *ticket) { p.a = tk }),
				discovery.Wire("b", "", func(p *pair, tk *ticket) { p.b = tk }),
			).Descriptor(),
	)
	require.NoError(t, err)

	p, err := Resolve[*pair](e)
	require.NoError(t, err)
	assert.NotSame(t, p.a, p.b)

	_, err = Resolve[*pair](e)
	assert.NoError(t, err)
}

/* ───────────────────────── field errors ─────────────────────────── */

type plain struct{ v int }

func TestFieldResolutionErrors(t *testing.T) {
	type needsQualifier struct{ s store }
	type needsPlain struct{ p *plain }
	type needsController struct{ h *homeController }
	type needsMissingBinding struct{ s store }

	tests := []struct {
		name  string
		descs []discovery.Descriptor
		check func(t *testing.T, err error)
	}{
		{
			"interface without qualifier",
			[]discovery.Descriptor{
				discovery.Define[needsQualifier]("t", discovery.Service).
					Autowired(discovery.Wire("s", "", func(n *needsQualifier, s store) { n.s = s })).Descriptor(),
			},
			func(t *testing.T, err error) {
				var mq *MissingQualifierError
				require.True(t, errors.As(err, &mq))
				assert.Equal(t, "s", mq.Field)
			},
		},
		{
			"undeclared concrete type",
			[]discovery.Descriptor{
				discovery.Define[needsPlain]("t", discovery.Service).
					Autowired(discovery.Wire("p", "", func(n *needsPlain, p *plain) { n.p = p })).Descriptor(),
			},
			func(t *testing.T, err error) {
				var it *InvalidInjectionTargetError
				require.True(t, errors.As(err, &it))
				assert.Equal(t, "*di.plain", it.Type)
			},
		},
		{
			"controller is not injectable",
			[]discovery.Descriptor{
				discovery.Define[homeController]("t", discovery.Controller).
					GET("/", "index", (*homeController).index).Descriptor(),
				discovery.Define[needsController]("t", discovery.Service).
					Autowired(discovery.Wire("h", "", func(n *needsController, h *homeController) { n.h = h })).Descriptor(),
			},
			func(t *testing.T, err error) {
				var it *InvalidInjectionTargetError
				assert.True(t, errors.As(err, &it))
			},
		},
		{
			"missing binding",
			[]discovery.Descriptor{
				discovery.Define[needsMissingBinding]("t", discovery.Service).
					Autowired(discovery.Wire("s", "nope", func(n *needsMissingBinding, s store) { n.s = s })).Descriptor(),
			},
			func(t *testing.T, err error) {
				var nf *registry.BindingNotFoundError
				assert.True(t, errors.As(err, &nf))
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := build(tc.descs...)
			require.Error(t, err)
			assert.ErrorIs(t, err, bootErrors.ErrResolution)
			tc.check(t, err)
		})
	}
}

func TestFailedSingletonIsNotPublished(t *testing.T) {
	type brokenService struct {
		counter *counter
		p       *plain
	}
	descs := []discovery.Descriptor{
		discovery.Define[counter]("t", discovery.Bean).Descriptor(),
		discovery.Define[brokenService]("t", discovery.Service).
			Autowired(
				discovery.Wire("counter", "", func(b *brokenService, c *counter) { b.counter = c }),
				discovery.Wire("p", "", func(b *brokenService, p *plain) { b.p = p }),
			).Descriptor(),
	}

	reg := registry.New()
	e := NewEngine(reg)
	for i := range descs {
		e.Load(&descs[i])
	}
	brokenType := reflect.TypeOf(&brokenService{})

	_, err := e.Instantiate(brokenType)
	var it *InvalidInjectionTargetError
	require.True(t, errors.As(err, &it))
	assert.False(t, reg.HasSingleton(brokenType))
	assert.False(t, reg.HasSingleton(reflect.TypeOf(&counter{})), "dependencies built by the failed call are discarded too")
	assert.Zero(t, reg.Singletons())

	inst, err := e.Instantiate(brokenType)
	assert.Nil(t, inst)
	assert.True(t, errors.As(err, &it), "a later call reports the error again")

	c, err := Resolve[*counter](e)
	require.NoError(t, err)
	assert.True(t, reg.HasSingleton(reflect.TypeOf(c)))
}

func TestDuplicateQualifiedBindingFailsStartup(t *testing.T) {
	type otherMem struct{ memStore }
	_, err := build(
		discovery.Define[memStore]("t", discovery.Component).Qualified("mem", discovery.TypeOf[store]()).Descriptor(),
		discovery.Define[otherMem]("t", discovery.Component).Qualified("mem", discovery.TypeOf[store]()).Descriptor(),
	)

	var dup *registry.DuplicateBindingError
	require.True(t, errors.As(err, &dup))
	assert.ErrorIs(t, err, bootErrors.ErrConfiguration)
}

func TestPrototypeBeanIsNotEager(t *testing.T) {
	e, err := build(discovery.Define[counter]("t", discovery.Bean).Scope(discovery.ScopePrototype).Descriptor())
	require.NoError(t, err)
	assert.False(t, e.Registry().HasSingleton(reflect.TypeOf(&counter{})))

	a, _ := Resolve[*counter](e)
	b, _ := Resolve[*counter](e)
	assert.NotSame(t, a, b)
}

/* ───────────────────────── logging & concurrency ─────────────────────────── */

func TestVerboseInjectionIsLogged(t *testing.T) {
	rec, restore := testutil.ObserveLogs(zap.InfoLevel)
	defer restore()

	_, err := build(wired()...)
	require.NoError(t, err)

	logs := rec.FilterMessage("Injected dependency").All()
	require.Len(t, logs, 1, "only the verbose field is logged")
	fields := logs[0].ContextMap()
	assert.Equal(t, "store", fields["field"])
	assert.Equal(t, "*di.catalogService", fields["owner"])
	assert.Equal(t, "di.store", fields["fieldType"])
}

func TestControllerConstructedOnceUnderContention(t *testing.T) {
	constructed := 0
	var mu sync.Mutex

	d := discovery.Define[homeController]("t", discovery.Controller).
		GET("/", "index", (*homeController).index).Descriptor()
	d.New = func() any {
		mu.Lock()
		constructed++
		mu.Unlock()
		return &homeController{}
	}

	e, err := build(d)
	require.NoError(t, err)

	const workers = 32
	var wg sync.WaitGroup
	results := make([]any, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = e.Controller(reflect.TypeOf(&homeController{}))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, constructed)
	for _, r := range results {
		assert.Same(t, results[0], r)
	}
}
