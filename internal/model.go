package internal

type User struct {
	Username string `json:"username"`
	ID       string `json:"_id"`
}

// Exercise has no identity of its own: the `_id` slot carries the owning user's id.
type Exercise struct {
	UserID      string  `json:"_id"`
	Description string  `json:"description"`
	Duration    float64 `json:"duration"`
	Date        string  `json:"date"`
}

type Log struct {
	UserID   string     `json:"_id"`
	Username string     `json:"username"`
	Count    int        `json:"count"`
	Log      []Exercise `json:"log"`
}
