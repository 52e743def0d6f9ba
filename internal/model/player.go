package model

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) Valid() bool {
	return c == White || c == Black
}

// Client is a connected board widget or host editor.
type Client struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

type Role string

const (
	RoleWidget Role = "widget"
	RoleHost   Role = "host"
)

func ParseRole(s string) Role {
	if s == string(RoleHost) {
		return RoleHost
	}
	return RoleWidget
}
