package simulate

// MaxIterations bounds the access-list fixed-point loop. Production
// contracts converge in a handful of iterations; 1000 only guards against a
// pathological or adversarial contract that never settles.
const MaxIterations = 1000
