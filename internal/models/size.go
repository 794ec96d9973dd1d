package models

type ResizeSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}
