package qmc

// SetCountForTest fast-forwards the cursor so exhaustion behavior can be
// exercised without generating 2^MaxBit points.
func (s *Sobol) SetCountForTest(c uint32) { s.count = c }
