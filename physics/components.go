package physics

import (
	recs "github.com/isaac-mason/rapida-sub001"
	"github.com/jakecoffman/cp/v2"
)

// Transform is the position and rotation of an entity in world space.
// For dynamic bodies it is written by the System after every step. Kinematic
// bodies follow their Transform, static bodies only read it once.
type Transform struct {
	recs.Component[Transform]
	Position cp.Vector
	Angle    float64
}

type BodyKind uint8

const (
	Dynamic BodyKind = iota
	Kinematic
	Static
)

// Body puts an entity into the physics space. The chipmunk body is created
// by the System once the entity has both a Body and a Transform.
type Body struct {
	recs.Component[Body]
	Kind BodyKind
	Mass float64

	// initial velocity, applied when the body is created
	Velocity cp.Vector

	body  *cp.Body
	shape *cp.Shape
	space *cp.Space
}

func (b *Body) Construct(args ...any) error {
	if len(args) == 0 {
		return nil
	}

	if err := recs.ExpectArgs(args, 1); err != nil {
		return err
	}

	kind, err := recs.Arg[BodyKind](args, 0)
	if err != nil {
		return err
	}

	b.Kind = kind
	return nil
}

// Created reports whether the chipmunk body exists.
func (b *Body) Created() bool {
	return b.body != nil
}

// CurrentVelocity returns the linear velocity of the simulated body.
func (b *Body) CurrentVelocity() cp.Vector {
	if b.body == nil {
		return b.Velocity
	}

	return b.body.Velocity()
}

func (b *Body) OnDestroy() {
	b.detach()
}

func (b *Body) detach() {
	if b.body == nil {
		return
	}

	if b.shape != nil {
		b.space.RemoveShape(b.shape)
	}

	b.space.RemoveBody(b.body)

	b.body = nil
	b.shape = nil
	b.space = nil
}

// Circle adds a circle collider to the body of the entity.
type Circle struct {
	recs.Component[Circle]
	Radius     float64
	Friction   float64
	Elasticity float64
}
