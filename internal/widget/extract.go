package widget

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"librahub/internal/domain"
)

const (
	maxUrgentItems = 3
	weekDays       = 7
)

// ExtractLibraLeads summarizes the CRM lead list. Missing or malformed state yields the empty state.
func ExtractLibraLeads(raw string, present bool, now time.Time) (domain.LeadsSummary, error) {
	if !present {
		return leadsEmpty(now), nil
	}

	var data any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return leadsEmpty(now), fmt.Errorf("parse leads: %w", err)
	}
	obj, ok := data.(map[string]any)
	if !ok {
		if data == nil {
			return leadsEmpty(now), fmt.Errorf("parse leads: null state")
		}
		obj = map[string]any{}
	}

	var leads []any
	switch v := obj["leads"].(type) {
	case []any:
		leads = v
	default:
		if truthy(v) {
			return leadsEmpty(now), fmt.Errorf("parse leads: leads is %T", v)
		}
	}

	today := startOfDay(now)
	weekAhead := today.AddDate(0, 0, weekDays)

	summary := domain.LeadsSummary{
		Urgent:     []domain.UrgentItem{},
		TotalLeads: len(leads),
		LastSync:   isoTimestamp(now),
		Status:     domain.WidgetStatusActive,
	}
	for _, item := range leads {
		lead, _ := item.(map[string]any)
		if lead == nil {
			continue
		}

		priority := lead["followupPriority"]
		urgent := priority == "urgent"
		if due, ok := parseDay(lead["nextFollowupDate"]); ok {
			switch {
			case urgent && !due.After(today):
				summary.UrgentCount++
				if len(summary.Urgent) < maxUrgentItems {
					summary.Urgent = append(summary.Urgent, domain.UrgentItem{
						Company:  stringOr(lead["company"], "Unknown"),
						Action:   stringOr(lead["followupAction"], "Follow-up"),
						Time:     stringOr(lead["nextFollowupTime"], ""),
						Priority: stringOr(priority, "normal"),
					})
				}
			case !urgent && due.After(today) && !due.After(weekAhead):
				summary.ThisWeekCount++
			}
		}

		if status := lead["status"]; status == "response" || status == "meeting" {
			summary.TotalPipeline = addSaturating(summary.TotalPipeline, leadingInt(lead["dealSize"]))
		}
	}
	return summary, nil
}

func leadsEmpty(now time.Time) domain.LeadsSummary {
	return domain.LeadsSummary{
		Urgent:   []domain.UrgentItem{},
		LastSync: isoTimestamp(now),
		Status:   domain.WidgetStatusEmpty,
	}
}

// decodeObject parses tool state, treating an absent key as an empty object.
func decodeObject(raw string, present bool) (map[string]any, error) {
	if !present || raw == "" {
		return map[string]any{}, nil
	}
	var data any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, err
	}
	switch v := data.(type) {
	case map[string]any:
		return v, nil
	case []any:
		return map[string]any{}, nil
	default:
		return nil, fmt.Errorf("state is %s, want object", jsonKind(v))
	}
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return "value"
	}
}

func ExtractEmailDrafter(raw string, present bool, now time.Time) (domain.EmailDrafterSummary, error) {
	data, err := decodeObject(raw, present)
	if err != nil {
		return domain.EmailDrafterSummary{
			SavedTimeToday: "0 hours",
			LastDraft:      "Error loading data",
			AIStatus:       domain.WidgetStatusError,
			LastSync:       isoTimestamp(now),
			Status:         domain.WidgetStatusError,
		}, fmt.Errorf("parse email drafter: %w", err)
	}

	pending := numberOr(data["pendingDrafts"], 0)
	status := domain.WidgetStatusIdle
	if pending > 0 {
		status = domain.WidgetStatusActive
	}
	return domain.EmailDrafterSummary{
		PendingDrafts:  pending,
		SavedTimeToday: stringOr(data["savedTimeToday"], "0 hours"),
		LastDraft:      stringOr(data["lastDraft"], "No recent drafts"),
		AIStatus:       stringOr(data["aiStatus"], "ready"),
		LastSync:       isoTimestamp(now),
		Status:         status,
	}, nil
}

func ExtractInvoiceGenerator(raw string, present bool, now time.Time) (domain.InvoiceSummary, error) {
	data, err := decodeObject(raw, present)
	if err != nil {
		return domain.InvoiceSummary{
			NextInvoice: "Error loading data",
			LastSync:    isoTimestamp(now),
			Status:      domain.WidgetStatusError,
		}, fmt.Errorf("parse invoice generator: %w", err)
	}

	pending := numberOr(data["pendingInvoices"], 0)
	status := domain.WidgetStatusCurrent
	if pending > 0 {
		status = domain.WidgetStatusPending
	}
	return domain.InvoiceSummary{
		MonthlyRevenue:  numberOr(data["monthlyRevenue"], 0),
		PendingInvoices: pending,
		OverdueInvoices: numberOr(data["overdueInvoices"], 0),
		NextInvoice:     stringOr(data["nextInvoice"], "No upcoming invoices"),
		LastSync:        isoTimestamp(now),
		Status:          status,
	}, nil
}

// ExtractCustomTool derives a generic summary from a user tool's flat state.
func ExtractCustomTool(tool domain.Tool, raw string, present bool, now time.Time) (domain.CustomToolSummary, error) {
	summary := domain.CustomToolSummary{
		ToolID:   tool.ID,
		ToolName: tool.Name,
		LastSync: isoTimestamp(now),
	}

	var data map[string]any
	if present && raw != "" {
		if err := json.Unmarshal([]byte(raw), &data); err != nil || data == nil {
			summary.LastActivity = "Error loading data"
			summary.Status = domain.WidgetStatusError
			summary.Summary = "Unable to load tool data"
			if err == nil {
				err = fmt.Errorf("state is null")
			}
			return summary, fmt.Errorf("parse tool %s: %w", tool.ID, err)
		}
	}

	summary.DataPoints = len(data)
	summary.LastActivity = stringOr(data["lastActivity"], "No activity")
	summary.Status = stringOr(data["status"], domain.WidgetStatusUnknown)
	summary.Summary = summarize(data)
	return summary, nil
}

func summarize(data map[string]any) string {
	if len(data) == 0 {
		return "No data available"
	}
	var items []string
	if v, ok := data["count"]; ok {
		items = append(items, formatValue(v)+" items")
	}
	if v, ok := data["total"]; ok {
		items = append(items, "€"+formatValue(v)+" total")
	}
	if v, ok := data["pending"]; ok {
		items = append(items, formatValue(v)+" pending")
	}
	if v, ok := data["active"]; ok {
		items = append(items, formatValue(v)+" active")
	}
	if len(items) == 0 {
		return fmt.Sprintf("%d data points", len(data))
	}
	return strings.Join(items, ", ")
}
