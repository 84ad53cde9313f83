package catalog

// Item is one media entry on the wall.
type Item struct {
	ID  int    `json:"id" toml:"id"`
	Src string `json:"src" toml:"src"` // resolved by a texture.Fetcher, e.g. "covers/01.jpg"
}
