// Package localstore keeps per-device documents (cart, wishlist) under a
// stable key prefix, so a device id plays the role of browser storage.
package localstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/dorada-store/internal/constants"
)

// ErrInvalidDevice the device id is missing or malformed
var ErrInvalidDevice = errors.New("invalid device id")

var deviceIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{8,64}$`)

// Store reads and writes JSON documents owned by one device.
type Store interface {
	// Get decodes the document into dest; the bool reports whether it existed.
	Get(ctx context.Context, deviceID, name string, dest interface{}) (bool, error)
	Set(ctx context.Context, deviceID, name string, value interface{}) error
	Delete(ctx context.Context, deviceID, name string) error
}

// ValidateDeviceID checks the client supplied id.
func ValidateDeviceID(deviceID string) error {
	if !deviceIDPattern.MatchString(strings.TrimSpace(deviceID)) {
		return ErrInvalidDevice
	}
	return nil
}

// Key builds the namespaced key, e.g. dorada_cart:<device>.
func Key(deviceID, name string) string {
	return fmt.Sprintf("%s%s:%s", constants.DeviceKeyPrefix, name, strings.TrimSpace(deviceID))
}
