package physics

import "github.com/san-kum/orbitsim/internal/dynamo"

func KineticEnergy(b *dynamo.Body) float64 {
	v := b.Velocity
	return 0.5 * b.Mass * (v.X*v.X + v.Y*v.Y)
}

// PotentialEnergy is -G*m1*m2/d for the pair, with the clamped separation.
func (g Gravity) PotentialEnergy(a, b *dynamo.Body) float64 {
	return -g.G * (a.Mass * b.Mass) / g.separation(a, b)
}

// AngularMomentum of body about the position of center.
func AngularMomentum(body, center *dynamo.Body) float64 {
	r := body.Position.Sub(center.Position)
	return body.Mass * (r.X*body.Velocity.Y - r.Y*body.Velocity.X)
}
