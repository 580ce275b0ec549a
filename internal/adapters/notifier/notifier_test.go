package notifier

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"find-a-house/internal/contextkeys"
	"find-a-house/internal/core/domain"
)

func sampleMatch(profile string, bedrooms int) domain.MatchedListing {
	return domain.MatchedListing{
		Listing: domain.Listing{
			ID: "myhome_555", Source: "myhome", Title: "Apartment, Rathmines", Price: 1950,
			Bedrooms: bedrooms, Bathrooms: 1, Area: "Rathmines", URL: "https://www.myhome.ie/rentals/brochure/555",
		},
		Profile: profile,
		Score:   2,
		RunID:   "run-7",
	}
}

func TestFormatTitleAndMessage(t *testing.T) {
	tests := []struct {
		name     string
		bedrooms int
		title    string
		beds     string
	}{
		{"known", 2, "€1950/mo - 2 bed", "Beds: 2 | Baths: 1"},
		{"studio", 0, "€1950/mo - 0 bed", "Beds: 0 | Baths: 1"},
		{"unknown", domain.BedroomsUnknown, "€1950/mo - ? bed", "Beds: ? | Baths: 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := sampleMatch("city", tt.bedrooms)
			if got := FormatTitle(m.Listing); got != tt.title {
				t.Errorf("FormatTitle = %q; want %q", got, tt.title)
			}
			msg := FormatMessage(m)
			if !strings.Contains(msg, tt.beds) || !strings.HasSuffix(msg, m.Listing.URL) {
				t.Errorf("FormatMessage = %q", msg)
			}
		})
	}
}

type stubNotifier struct {
	calls int
	err   error
}

func (s *stubNotifier) Notify(ctx context.Context, matched domain.MatchedListing) error {
	s.calls++
	return s.err
}

func TestFanoutNotifier(t *testing.T) {
	ok := &stubNotifier{}
	brokerErr := errors.New("broker down")
	broken := &stubNotifier{err: brokerErr}

	fanout, err := NewFanoutNotifier(broken, nil, ok)
	if err != nil {
		t.Fatalf("NewFanoutNotifier: %v", err)
	}
	err = fanout.Notify(context.Background(), sampleMatch("city", 1))
	if !errors.Is(err, brokerErr) {
		t.Errorf("Notify = %v; want wrapped broker error", err)
	}
	if ok.calls != 1 || broken.calls != 1 {
		t.Errorf("calls ok=%d broken=%d; every notifier must be tried", ok.calls, broken.calls)
	}

	healthy, _ := NewFanoutNotifier(ok, &stubNotifier{})
	if err := healthy.Notify(context.Background(), sampleMatch("city", 1)); err != nil {
		t.Errorf("Notify = %v; want nil", err)
	}

	if _, err := NewFanoutNotifier(nil); err == nil {
		t.Error("expected error without notifiers")
	}
}

func TestLogNotifierNeverFails(t *testing.T) {
	if err := NewLogNotifier().Notify(context.Background(), sampleMatch("", domain.BedroomsUnknown)); err != nil {
		t.Errorf("Notify = %v", err)
	}
}

func receive(t *testing.T, ch ClientChannel) string {
	t.Helper()
	select {
	case msg := <-ch:
		return string(msg)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for SSE message")
		return ""
	}
}

func TestSSENotifierRoutesByProfile(t *testing.T) {
	n := NewSSENotifier(contextkeys.LoggerFromContext(context.Background()), nil)
	defer n.Close()

	all := n.AddClient(AllProfiles)
	city := n.AddClient("city")
	budget := n.AddClient("budget")

	if err := n.Notify(context.Background(), sampleMatch("city", 2)); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	for name, ch := range map[string]ClientChannel{"all": all, "city": city} {
		msg := receive(t, ch)
		if !strings.HasPrefix(msg, "event: listing.matched\ndata: {") || !strings.HasSuffix(msg, "\n\n") {
			t.Errorf("%s client got %q", name, msg)
		}
		if !strings.Contains(msg, `"id":"myhome_555"`) {
			t.Errorf("%s client message lacks listing id: %q", name, msg)
		}
	}

	select {
	case msg := <-budget:
		t.Errorf("budget client must not receive city match, got %q", msg)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSSENotifierRemoveClientAndClose(t *testing.T) {
	n := NewSSENotifier(contextkeys.LoggerFromContext(context.Background()), nil)

	ch := n.AddClient("city")
	n.RemoveClient("city", ch)
	n.mu.RLock()
	_, present := n.clients["city"]
	n.mu.RUnlock()
	if present {
		t.Error("profile entry must be removed with its last client")
	}

	n.Close()
	n.Close()
	if err := n.Notify(context.Background(), sampleMatch("city", 1)); err == nil {
		t.Error("Notify after Close must fail")
	}
}
