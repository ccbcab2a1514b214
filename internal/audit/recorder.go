package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/JinxSeven/Risk-360/internal/core/events"
	"github.com/JinxSeven/Risk-360/internal/grc"
	"github.com/JinxSeven/Risk-360/internal/obs"
)

// Recorder turns bus events into audit entries on sink.
type Recorder struct {
	sink   grc.DataService
	logger *slog.Logger
}

func NewRecorder(sink grc.DataService, logger *slog.Logger) *Recorder {
	return &Recorder{sink: sink, logger: logger}
}

func (r *Recorder) Register(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeEntityChanged, r.HandleEntityChanged)
	bus.Subscribe(events.EventTypeUserSignedIn, r.HandleUserSignedIn)
}

func (r *Recorder) HandleEntityChanged(ctx context.Context, event events.Event) error {
	ev, ok := event.(*events.EntityChangedEvent)
	if !ok {
		return fmt.Errorf("audit: unexpected event %T", event)
	}
	entityType, err := grc.ParseEntityType(ev.EntityType)
	if err != nil {
		return err
	}
	return r.record(ctx, grc.NewAuditEntry{
		Action:     ev.Action,
		EntityType: entityType,
		EntityID:   ev.EntityID,
		UserID:     ev.UserID,
		Details:    details(ev),
	})
}

func (r *Recorder) HandleUserSignedIn(ctx context.Context, event events.Event) error {
	ev, ok := event.(*events.UserSignedInEvent)
	if !ok {
		return fmt.Errorf("audit: unexpected event %T", event)
	}
	mode := "connected"
	if ev.Demo {
		mode = "demo"
	}
	return r.record(ctx, grc.NewAuditEntry{
		Action:     events.ActionSignedIn,
		EntityType: grc.EntityUser,
		EntityID:   ev.UserID,
		UserID:     ev.UserID,
		Details:    fmt.Sprintf("signed in (%s mode)", mode),
	})
}

func (r *Recorder) record(ctx context.Context, in grc.NewAuditEntry) error {
	if _, err := r.sink.AddAuditEntry(ctx, in); err != nil {
		return err
	}
	obs.AuditEntries.WithLabelValues(string(in.EntityType), in.Action).Inc()
	r.logger.Debug("audit entry recorded",
		"entity_type", in.EntityType,
		"entity_id", in.EntityID,
		"action", in.Action)
	return nil
}

func details(ev *events.EntityChangedEvent) string {
	switch ev.Action {
	case events.ActionCreated:
		return strings.TrimSpace("created " + label(ev.After))
	case events.ActionDeleted:
		return strings.TrimSpace("deleted " + label(ev.Before))
	}

	before, okBefore := ev.Before.(*grc.Policy)
	after, okAfter := ev.After.(*grc.Policy)
	if okBefore && okAfter && before != nil && after != nil && before.Content != after.Content {
		return ContentPatch(before.Content, after.Content)
	}
	if fields := changedFields(ev.Before, ev.After); len(fields) > 0 {
		return "changed: " + strings.Join(fields, ", ")
	}
	return "updated"
}

// ContentPatch renders the change from before to after as a unified-style
// patch text.
func ContentPatch(before, after string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	return dmp.PatchToText(dmp.PatchMake(before, diffs))
}

func label(v interface{}) string {
	switch e := v.(type) {
	case *grc.Policy:
		if e != nil {
			return fmt.Sprintf("%q", e.Title)
		}
	case *grc.ComplianceRequirement:
		if e != nil {
			return fmt.Sprintf("%q", e.Title)
		}
	case *grc.WhistleblowingReport:
		if e != nil {
			return fmt.Sprintf("%q", e.Title)
		}
	case *grc.User:
		if e != nil {
			return fmt.Sprintf("%q", e.Name)
		}
	case *grc.Company:
		if e != nil {
			return fmt.Sprintf("%q", e.Name)
		}
	}
	return ""
}

// changedFields compares the JSON shape of two records and lists the keys
// that differ, ignoring the bookkeeping timestamp.
func changedFields(before, after interface{}) []string {
	b, a := asMap(before), asMap(after)
	if b == nil || a == nil {
		return nil
	}
	var out []string
	for k, av := range a {
		if k == "lastUpdated" {
			continue
		}
		if !reflect.DeepEqual(b[k], av) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func asMap(v interface{}) map[string]interface{} {
	if v == nil {
		return nil
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Ptr && rv.IsNil() {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}
