// Package ibm converts between IBM System/360 hexadecimal floating point
// and IEEE 754, the sample codec needed for format code 1 SEG-Y data. An
// IBM single has a sign bit, a 7-bit excess-64 base-16 exponent and a
// 24-bit fraction in [1/16, 1).
package ibm

import "math"

const (
	signMask     = 0x80000000
	exponentMask = 0x7F000000
	fractionMask = 0x00FFFFFF

	exponentBias = 64
	fractionBits = 24
)

// ToFloat32 interprets bits as an IBM single precision float.
func ToFloat32(bits uint32) float32 {
	fraction := bits & fractionMask
	if fraction == 0 {
		return 0
	}
	exponent := int((bits&exponentMask)>>fractionBits) - exponentBias
	value := float64(fraction) * math.Pow(16, float64(exponent-fractionBits/4))
	if bits&signMask != 0 {
		value = -value
	}
	return float32(value)
}

// FromFloat32 encodes f as an IBM single precision float. Values whose
// magnitude falls outside the IBM range saturate to the largest or smallest
// representable magnitude.
func FromFloat32(f float32) uint32 {
	if f == 0 || math.IsNaN(float64(f)) {
		return 0
	}

	var sign uint32
	v := float64(f)
	if v < 0 {
		sign = signMask
		v = -v
	}

	// Normalize so that v = fraction * 16^exponent with fraction in [1/16, 1).
	_, e2 := math.Frexp(v)
	exponent := (e2 + 3) >> 2 // ceil(e2/4)
	fraction := v * math.Pow(16, float64(-exponent))

	mantissa := uint32(math.Round(fraction * (1 << fractionBits)))
	if mantissa >= 1<<fractionBits {
		// Rounding carried over; renormalize.
		mantissa >>= 4
		exponent++
	}

	biased := exponent + exponentBias
	switch {
	case biased < 0:
		return sign // underflow to zero
	case biased > 0x7F:
		return sign | exponentMask | fractionMask // saturate
	}

	return sign | uint32(biased)<<fractionBits | mantissa
}
