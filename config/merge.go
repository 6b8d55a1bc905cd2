package config

// MergeMaps deep-merges src into dst; src wins on conflicts. Nested maps
// from src are copied so later merges never write into a source's data.
func MergeMaps(dst, src map[string]any) {
	for k, v := range src {
		mv, ok := v.(map[string]any)
		if !ok {
			dst[k] = v
			continue
		}
		existing, ok := dst[k].(map[string]any)
		if !ok {
			existing = make(map[string]any, len(mv))
			dst[k] = existing
		}
		MergeMaps(existing, mv)
	}
}
