package websocket

import "testing"

func TestParseChannel(t *testing.T) {
	testCases := []struct {
		channel string
		topic   string
		target  string
		ok      bool
	}{
		{"price:usd-vault", "price", "usd-vault", true},
		{"queue:cosmos1owner", "queue", "cosmos1owner", true},
		{"usd-vault", "", "", false},
		{"price:", "", "", false},
		{":usd-vault", "", "", false},
		{"", "", "", false},
	}

	for _, tc := range testCases {
		topic, target, ok := parseChannel(tc.channel)
		if ok != tc.ok {
			t.Errorf("parseChannel(%q) ok = %v, want %v", tc.channel, ok, tc.ok)
			continue
		}
		if ok && (topic != tc.topic || target != tc.target) {
			t.Errorf("parseChannel(%q) = (%q, %q), want (%q, %q)", tc.channel, topic, target, tc.topic, tc.target)
		}
	}
}

func TestChannelAccessRules(t *testing.T) {
	anon := &Client{subscriptions: make(map[string]bool)}
	owner := &Client{userID: "cosmos1owner", subscriptions: make(map[string]bool)}

	testCases := []struct {
		name    string
		client  *Client
		channel string
		want    bool
	}{
		{"price is public", anon, "price:usd-vault", true},
		{"pool is public", anon, "pool:usd-vault", true},
		{"flash is public", anon, "flash:usd-vault", true},
		{"missing target", anon, "price:", false},
		{"bare pool id", anon, "usd-vault", false},
		{"unknown topic", anon, "orders:usd-vault", false},
		{"queue needs auth", anon, "queue:cosmos1owner", false},
		{"own queue", owner, "queue:cosmos1owner", true},
		{"someone else's queue", owner, "queue:cosmos1other", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, got := tc.client.checkChannel(tc.channel); got != tc.want {
				t.Errorf("checkChannel(%q) = %v, want %v", tc.channel, got, tc.want)
			}
		})
	}
}
