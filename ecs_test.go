package recs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type Position struct {
	Component[Position]
	X, Y float64
}

type Velocity struct {
	Component[Velocity]
	X, Y float64
}

type Frozen struct {
	Component[Frozen]
}

// Health requires its initial value on construction.
type Health struct {
	Component[Health]
	Value int
}

func (h *Health) Construct(args ...any) error {
	if err := ExpectArgs(args, 1); err != nil {
		return err
	}

	value, err := Arg[int](args, 0)
	if err != nil {
		return err
	}

	h.Value = value
	return nil
}

// Tracked records its lifecycle hooks into a shared log.
type Tracked struct {
	Component[Tracked]
	Log *[]string
}

func (c *Tracked) Construct(args ...any) error {
	if err := ExpectArgs(args, 1); err != nil {
		return err
	}

	log, err := Arg[*[]string](args, 0)
	if err != nil {
		return err
	}

	c.Log = log
	return nil
}

func (c *Tracked) OnInit()                      { *c.Log = append(*c.Log, "init") }
func (c *Tracked) OnUpdate(delta, time float64) { *c.Log = append(*c.Log, "update") }
func (c *Tracked) OnDestroy()                   { *c.Log = append(*c.Log, "destroy") }

var (
	positionType = ComponentTypeOf[Position]()
	velocityType = ComponentTypeOf[Velocity]()
	frozenType   = ComponentTypeOf[Frozen]()
	healthType   = ComponentTypeOf[Health]()
	trackedType  = ComponentTypeOf[Tracked]()
)

type movingSystem struct {
	System
	updates int
}

func newMovingSystem() *movingSystem {
	s := &movingSystem{}
	s.Queries = map[string]QueryDescription{
		"moving": {All: []*ComponentType{positionType, velocityType}},
	}

	return s
}

func (s *movingSystem) OnUpdate(delta, time float64, results Results) {
	s.updates += 1

	for entity := range results["moving"].All().Values() {
		pos, _ := GetComponent[Position](entity)
		vel, _ := GetComponent[Velocity](entity)

		pos.X += vel.X * delta
		pos.Y += vel.Y * delta
	}
}

func newRunningWorld(t *testing.T) (*World, *Space) {
	t.Helper()

	w := NewWorld()
	require.NoError(t, w.Init())

	space, err := w.CreateSpace()
	require.NoError(t, err)

	return w, space
}

func spawn(t *testing.T, space *Space, types ...*ComponentType) *Entity {
	t.Helper()

	entity, err := space.CreateEntity()
	require.NoError(t, err)

	for _, ty := range types {
		_, err := entity.Add(ty)
		require.NoError(t, err)
	}

	return entity
}

func TestComponentTypesFromPackageVariables(t *testing.T) {
	// registered while package variables were initialised
	require.NotNil(t, positionType)
	require.Same(t, positionType, ComponentTypeOf[Position]())

	ty, err := ComponentTypeByName(positionType.Name)
	require.NoError(t, err)
	require.Same(t, positionType, ty)
}
