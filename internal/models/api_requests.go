package models

// CompareRequest names the two players to compare. Format accepts the
// aliases ParseFormat understands.
type CompareRequest struct {
	PlayerA  string `json:"a" validate:"required,max=128"`
	PlayerB  string `json:"b" validate:"required,max=128"`
	Format   string `json:"format,omitempty" validate:"omitempty,max=32"`
	Viewport string `json:"viewport,omitempty" validate:"omitempty,oneof=narrow medium wide"`
}

// ReloadResponse is returned by POST /api/v1/reload.
type ReloadResponse struct {
	Reloaded bool   `json:"reloaded"`
	Version  string `json:"version"`
	Source   string `json:"source"`
}
