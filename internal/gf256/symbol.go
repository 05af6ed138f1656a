package gf256

// AddScaled performs dst += coef * src.
// Only the first min(len(dst), len(src)) elements are touched.
func (f *Field) AddScaled(dst []uint8, coef uint8, src []uint8) {
	if coef == 0 {
		return
	}
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	if coef == 1 {
		for i := 0; i < n; i++ {
			dst[i] ^= src[i]
		}
		return
	}
	lc := int(f.log[coef])
	for i := 0; i < n; i++ {
		if s := src[i]; s != 0 {
			dst[i] ^= f.exp[lc+int(f.log[s])]
		}
	}
}

// Scale performs symbol *= coef.
func (f *Field) Scale(symbol []uint8, coef uint8) {
	switch coef {
	case 0:
		for i := range symbol {
			symbol[i] = 0
		}
		return
	case 1:
		return
	}
	lc := int(f.log[coef])
	for i, s := range symbol {
		if s != 0 {
			symbol[i] = f.exp[lc+int(f.log[s])]
		}
	}
}

// IsZero reports whether every element of symbol is zero.
func IsZero(symbol []uint8) bool {
	for _, elem := range symbol {
		if elem != 0 {
			return false
		}
	}
	return true
}
