package discovery

import (
	"errors"
	"reflect"
	"testing"

	"github.com/SaiNageswarS/go-mini-boot/bootErrors"
	"github.com/SaiNageswarS/go-mini-boot/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/* ───────────────────────── fixtures ─────────────────────────── */

type greeter interface{ Greet() string }

type englishGreeter struct{ prefix string }

func (g *englishGreeter) Greet() string { return g.prefix + "hello" }

type greetingService struct{ g greeter }

type greetingController struct{ svc *greetingService }

type clock struct{ ticks int }

func (c *greetingController) hello(_ *web.Request) (web.Response, error) {
	return web.Text("%s", c.svc.g.Greet()), nil
}

func sampleCatalog() *Catalog {
	return NewCatalog().Add(
		Abstract[greeter]("app/greeting"),
		Define[englishGreeter]("app/greeting", Component).
			Qualified("english", TypeOf[greeter]()).
			Descriptor(),
		Define[greetingService]("app/greeting", Service).
			Autowired(Wire("g", "english", func(s *greetingService, g greeter) { s.g = g })).
			Descriptor(),
		Define[clock]("app/support", Bean).Scope(ScopePrototype).Descriptor(),
		Define[greetingController]("app/web", Controller).
			Autowired(Wire("svc", "", func(c *greetingController, s *greetingService) { c.svc = s })).
			GET("/hello", "hello", (*greetingController).hello).
			POST("/hello", "helloPost", (*greetingController).hello).
			Descriptor(),
		Define[englishGreeter]("other/place", Service).Descriptor(),
	)
}

/* ───────────────────────── scanning ─────────────────────────── */

func TestScan_ClassifiesUnderRoot(t *testing.T) {
	res, err := NewScanner(sampleCatalog()).Scan("app")
	require.NoError(t, err)

	assert.Len(t, res.All, 4, "abstract and out-of-root descriptors skipped")
	require.Len(t, res.Controllers, 1)
	assert.Equal(t, reflect.TypeOf(&greetingController{}), res.Controllers[0].Type)
	require.Len(t, res.Services, 1)
	assert.Equal(t, reflect.TypeOf(&greetingService{}), res.Services[0].Type)
	require.Len(t, res.Components, 1)
	require.Len(t, res.Qualified, 1)
	assert.Same(t, res.Components[0], res.Qualified[0], "one descriptor, two lists")
	require.Len(t, res.Beans, 1)
	assert.Equal(t, ScopePrototype, res.Beans[0].Scope)

	ops := res.Operations[reflect.TypeOf(&greetingController{})]
	require.Len(t, ops, 2)
	assert.Equal(t, "hello", ops[0].Name)
	assert.Equal(t, "POST", ops[1].Method)
}

func TestScan_SegmentPrefix(t *testing.T) {
	cat := NewCatalog().Add(
		Define[clock]("application/support", Bean).Descriptor(),
	)
	_, err := NewScanner(cat).Scan("app")
	var missing *MissingScanRootError
	require.True(t, errors.As(err, &missing), "app must not match application")

	res, err := NewScanner(sampleCatalog()).Scan("/app/greeting/")
	require.NoError(t, err)
	assert.Len(t, res.All, 2)
}

func TestScan_MissingRoot(t *testing.T) {
	_, err := NewScanner(sampleCatalog()).Scan("")
	assert.ErrorIs(t, err, bootErrors.ErrConfiguration)

	_, err = NewScanner(sampleCatalog()).Scan("nowhere")
	var missing *MissingScanRootError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "nowhere", missing.Root)
}

func TestScan_InvalidDescriptorsAreFatal(t *testing.T) {
	valid := Define[clock]("app", Bean).Descriptor()

	tests := []struct {
		name string
		desc Descriptor
	}{
		{"nil type", Descriptor{Namespace: "app", Stereotypes: Bean, New: func() any { return nil }}},
		{"no constructor", Descriptor{Type: reflect.TypeOf(&clock{}), Namespace: "app", Stereotypes: Bean}},
		{"no stereotype", Define[clock]("app", 0).Descriptor()},
		{"bad scope", Define[clock]("app", Bean).Scope("request").Descriptor()},
		{"qualified without qualifier", Define[englishGreeter]("app", Component).Qualified("", TypeOf[greeter]()).Descriptor()},
		{"qualified without capability", Define[englishGreeter]("app", Component).Qualified("x").Descriptor()},
		{"capability not interface", Define[englishGreeter]("app", Component).Qualified("x", TypeOf[clock]()).Descriptor()},
		{"does not implement", Define[clock]("app", Component).Qualified("x", TypeOf[greeter]()).Descriptor()},
		{"operation on service", Define[greetingController]("app", Service).GET("/x", "x", (*greetingController).hello).Descriptor()},
		{"incomplete operation", Define[greetingController]("app", Controller).GET("/x", "x", nil).Descriptor()},
		{"incomplete field", Define[greetingService]("app", Service).Autowired(Wire[greetingService, greeter]("g", "q", nil)).Descriptor()},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewScanner(NewCatalog().Add(valid, tc.desc)).Scan("app")
			require.Error(t, err)

			var le *LoadError
			assert.True(t, errors.As(err, &le), "got %v", err)
			assert.ErrorIs(t, err, bootErrors.ErrConfiguration)
		})
	}
}

func TestScan_DuplicateDeclaration(t *testing.T) {
	cat := NewCatalog().Add(
		Define[clock]("app", Bean).Descriptor(),
		Define[clock]("app/again", Bean).Descriptor(),
	)
	_, err := NewScanner(cat).Scan("app")

	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Contains(t, le.Error(), "declared more than once")
}

func TestScanResult_Lookup(t *testing.T) {
	res, err := NewScanner(sampleCatalog()).Scan("app")
	require.NoError(t, err)

	d, ok := res.Lookup(reflect.TypeOf(&clock{}))
	assert.True(t, ok)
	assert.True(t, d.Is(Bean))

	_, ok = res.Lookup(reflect.TypeOf(0))
	assert.False(t, ok)
}
