package physics

import (
	"math"

	recs "github.com/isaac-mason/rapida-sub001"
	"github.com/jakecoffman/cp/v2"
)

var (
	transformType = recs.ComponentTypeOf[Transform]()
	bodyType      = recs.ComponentTypeOf[Body]()
)

// System steps a chipmunk space with the world update and keeps Transform
// components in sync with their bodies.
type System struct {
	recs.System

	// Substeps splits every update into multiple steps of the space.
	Substeps int

	space *cp.Space
}

func NewSystem(gravity cp.Vector) *System {
	space := cp.NewSpace()
	space.SetGravity(gravity)

	s := &System{Substeps: 1, space: space}
	s.Queries = map[string]recs.QueryDescription{
		"bodies": {All: []*recs.ComponentType{bodyType, transformType}},
	}

	return s
}

// Space returns the simulated chipmunk space.
func (s *System) Space() *cp.Space {
	return s.space
}

func (s *System) OnUpdate(delta, time float64, results recs.Results) {
	bodies := results["bodies"]

	// entities that lost their transform but kept the body
	for entity := range bodies.Removed().Values() {
		if !entity.Alive() {
			continue
		}

		if body, ok := recs.FindComponent[Body](entity); ok {
			body.detach()
		}
	}

	// bodies are created lazily, entities found by the initial scan of the
	// query never show up in Added
	for entity := range bodies.All().Values() {
		body, transform, ok := components(entity)
		if !ok {
			continue
		}

		if !body.Created() {
			s.createBody(entity, body, transform)
			continue
		}

		if body.Kind == Kinematic {
			body.body.SetPosition(transform.Position)
			body.body.SetAngle(transform.Angle)
		}
	}

	substeps := max(1, s.Substeps)
	for range substeps {
		s.space.Step(delta / float64(substeps))
	}

	for entity := range bodies.All().Values() {
		body, transform, ok := components(entity)
		if !ok || !body.Created() || body.Kind != Dynamic {
			continue
		}

		transform.Position = body.body.Position()
		transform.Angle = body.body.Angle()
	}
}

// components returns the body and transform of an entity. Systems running
// earlier in the same update may have removed either of them.
func components(entity *recs.Entity) (*Body, *Transform, bool) {
	if !entity.Alive() {
		return nil, nil, false
	}

	body, err := recs.GetComponent[Body](entity)
	if err != nil {
		return nil, nil, false
	}

	transform, err := recs.GetComponent[Transform](entity)
	if err != nil {
		return nil, nil, false
	}

	return body, transform, true
}

func (s *System) createBody(entity *recs.Entity, body *Body, transform *Transform) {
	circle, hasCircle := recs.FindComponent[Circle](entity)

	var cpBody *cp.Body

	switch body.Kind {
	case Static:
		cpBody = cp.NewStaticBody()

	case Kinematic:
		cpBody = cp.NewKinematicBody()

	default:
		mass := body.Mass
		if mass <= 0 {
			mass = 1
		}

		// bodies without a collider do not rotate
		moment := math.Inf(1)
		if hasCircle {
			moment = cp.MomentForCircle(mass, 0, circle.Radius, cp.Vector{})
		}

		cpBody = cp.NewBody(mass, moment)
		cpBody.SetVelocityVector(body.Velocity)
	}

	cpBody.SetPosition(transform.Position)
	cpBody.SetAngle(transform.Angle)
	cpBody.UserData = entity.ID()

	s.space.AddBody(cpBody)

	body.body = cpBody
	body.space = s.space

	if hasCircle {
		shape := cp.NewCircle(cpBody, circle.Radius, cp.Vector{})
		shape.SetFriction(circle.Friction)
		shape.SetElasticity(circle.Elasticity)

		body.shape = s.space.AddShape(shape)
	}
}
