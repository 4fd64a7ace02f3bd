package utils

import (
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

func GenerateID() string {
	id, err := gonanoid.Generate("0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz", 7)
	if err != nil {
		return ""
	}
	return id
}

// GenerateRequestID builds a unique id with a readable prefix, used for
// conference create requests on calendar events.
func GenerateRequestID(prefix string) string {
	id := GenerateID()
	if id == "" {
		id = fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return prefix + "-" + id
}
