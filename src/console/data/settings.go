package data

import (
	"strings"
	"sync"

	"gorm.io/gorm"

	"github.com/civiclink/console/src/console/types"
)

// Site settings live in a small name/value table edited out of band. They are
// loaded once at startup and held in process; RefreshSettings re-reads them
// after a direct DB edit.

const (
	settingSiteName      = "site_name"
	settingPublicBaseURL = "public_base_url"

	defaultSiteName = "Community Console"
)

var (
	settingsMu    sync.RWMutex
	settingsCache map[string]string
)

func LoadSettings(db *gorm.DB) error {
	var rows []types.Setting
	if err := db.Find(&rows).Error; err != nil {
		return err
	}

	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Name] = row.Value
	}

	settingsMu.Lock()
	settingsCache = values
	settingsMu.Unlock()
	return nil
}

func RefreshSettings(db *gorm.DB) error {
	return LoadSettings(db)
}

// GetSetting returns the raw value for a setting name, or "" when unset.
func GetSetting(name string) string {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return settingsCache[name]
}

// SiteName is the display name shown in console headers. Fresh deployments
// without a settings row get a usable default.
func SiteName() string {
	if v := GetSetting(settingSiteName); v != "" {
		return v
	}
	return defaultSiteName
}

// PublicBaseURL is the public site origin used to build "view on site" links,
// without a trailing slash. Empty when not configured.
func PublicBaseURL() string {
	return strings.TrimRight(GetSetting(settingPublicBaseURL), "/")
}
