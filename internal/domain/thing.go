package domain

// Thing is the value object resolved by a thing service and held by the cache.
type Thing struct {
	ID   string `json:"id" toml:"id"`
	Name string `json:"name" toml:"name"`
}
