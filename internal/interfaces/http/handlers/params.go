package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"nft-launchpad.backend/internal/domain/entities"
	domainerrors "nft-launchpad.backend/internal/domain/errors"
)

// queryInt reads a non-negative integer query parameter. A missing value
// yields 0 so the use case applies its default.
func queryInt(c *gin.Context, key string) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, domainerrors.BadRequest("invalid " + key)
	}
	return n, nil
}

// queryBool reads an optional boolean query parameter.
func queryBool(c *gin.Context, key string) (*bool, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, domainerrors.BadRequest("invalid " + key)
	}
	return &b, nil
}

func queryWindow(c *gin.Context) (entities.WindowPolicy, error) {
	w, err := entities.ParseWindowPolicy(strings.TrimSpace(c.Query("window")), "")
	if err != nil {
		return "", domainerrors.BadRequest(err.Error())
	}
	return w, nil
}

func boolValue(b *bool) bool {
	return b != nil && *b
}
