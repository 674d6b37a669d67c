package league

// League is one competition as reported by the football data provider.
type League struct {
	ID      int64
	Name    string
	Country string
	Type    string
	LogoURL string
	// Season is the current season year when the provider reports one, else 0.
	Season int
}
