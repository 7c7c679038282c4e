package metrics

import "math"

// Largest-Lyapunov-exponent estimators for the three map families used by
// the core. A positive exponent indicates sensitive dependence on initial
// conditions. These are diagnostics, not part of the operational path, so
// they re-state the recurrences locally rather than consuming map state.

// LyapunovLogistic estimates the logistic map's exponent from the analytic
// derivative: lambda = (1/n) * sum log|r - 2rx|.
func LyapunovLogistic(r, x0 float64, iterations int) float64 {
	x := x0
	sum := 0.0
	for i := 0; i < iterations; i++ {
		x = r * x * (1 - x)
		d := math.Abs(r - 2*r*x)
		if d > 1e-12 {
			sum += math.Log(d)
		}
	}
	return sum / float64(iterations)
}

// LyapunovHenon estimates the Hénon map's largest exponent by evolving a
// tangent vector through the Jacobian with renormalization each step.
func LyapunovHenon(a, b, x0, y0 float64, iterations int) float64 {
	x, y := x0, y0
	vx, vy := 1.0, 0.0
	sum := 0.0

	for i := 0; i < iterations; i++ {
		// Jacobian at (x, y): [[-2ax, 1], [b, 0]].
		nvx := -2*a*x*vx + vy
		nvy := b * vx
		norm := math.Hypot(nvx, nvy)
		if norm > 1e-12 {
			sum += math.Log(norm)
			nvx /= norm
			nvy /= norm
		}
		vx, vy = nvx, nvy

		x, y = 1-a*x*x+y, b*x
	}
	return sum / float64(iterations)
}

// LyapunovLorenz estimates the Lorenz system's largest exponent by tracking
// the separation of a twin trajectory perturbed by epsilon along x, with
// renormalization after every RK4 step. The perturbation direction is fixed
// so the estimate is deterministic.
func LyapunovLorenz(sigma, rho, beta, x0, y0, z0, dt float64, iterations int) float64 {
	const epsilon = 1e-8

	state := [3]float64{x0, y0, z0}
	perturbed := [3]float64{x0 + epsilon, y0, z0}

	step := func(s [3]float64) [3]float64 {
		deriv := func(p [3]float64) [3]float64 {
			return [3]float64{
				sigma * (p[1] - p[0]),
				p[0]*(rho-p[2]) - p[1],
				p[0]*p[1] - beta*p[2],
			}
		}
		add := func(p, k [3]float64, h float64) [3]float64 {
			return [3]float64{p[0] + h*k[0], p[1] + h*k[1], p[2] + h*k[2]}
		}
		k1 := deriv(s)
		k2 := deriv(add(s, k1, 0.5*dt))
		k3 := deriv(add(s, k2, 0.5*dt))
		k4 := deriv(add(s, k3, dt))
		var out [3]float64
		for i := 0; i < 3; i++ {
			out[i] = s[i] + (dt/6.0)*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
		}
		return out
	}

	sum := 0.0
	for i := 0; i < iterations; i++ {
		state = step(state)
		perturbed = step(perturbed)

		dx := perturbed[0] - state[0]
		dy := perturbed[1] - state[1]
		dz := perturbed[2] - state[2]
		delta := math.Sqrt(dx*dx + dy*dy + dz*dz)
		if delta > 1e-12 {
			sum += math.Log(delta / epsilon)
			scale := epsilon / delta
			perturbed = [3]float64{
				state[0] + dx*scale,
				state[1] + dy*scale,
				state[2] + dz*scale,
			}
		}
	}
	return sum / (float64(iterations) * dt)
}
