package selection

// Seed maps a string key to a stable positive integer used to derive the
// deterministic pseudo-shuffle ordering. Classic rolling hash over the key
// bytes with wrapped 32-bit signed arithmetic, absolute value, floor of 1
// (zero would collapse the modular ordering downstream). Stable across
// runs, processes and languages for the same key.
func Seed(key string) int64 {
	var h int32
	for i := 0; i < len(key); i++ {
		h = h*31 + int32(key[i])
	}

	v := int64(h)
	if v < 0 {
		v = -v
	}
	if v == 0 {
		v = 1
	}

	return v
}
