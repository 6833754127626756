package cache

import (
	"context"
	"encoding/json"
	"time"

	rd "sindesk_negotiation/internal/config/connections/redis"
	"sindesk_negotiation/internal/models"
)

const settingsTTL = 5 * time.Minute

// SettingsCache keeps per-organization negotiation settings in redis so a
// wizard session does not hit Postgres on every step re-render.
type SettingsCache struct {
	rd *rd.Redis
}

func NewSettingsCache(r *rd.Redis) *SettingsCache {
	return &SettingsCache{rd: r}
}

func key(organizationID string) string {
	return "neg:settings:" + organizationID
}

func (c *SettingsCache) Get(ctx context.Context, organizationID string) (*models.NegotiationSettings, bool) {
	if c.rd == nil || c.rd.Client == nil {
		return nil, false
	}

	raw, err := c.rd.Client.Get(ctx, key(organizationID)).Result()
	if err != nil {
		return nil, false
	}

	var s models.NegotiationSettings
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, false
	}
	return &s, true
}

func (c *SettingsCache) Set(ctx context.Context, s models.NegotiationSettings) error {
	if c.rd == nil || c.rd.Client == nil {
		return nil
	}

	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.rd.Client.Set(ctx, key(s.OrganizationID), raw, settingsTTL).Err()
}
