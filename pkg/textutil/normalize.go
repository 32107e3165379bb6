// Package textutil normalizes free-text chat input into canonical domain
// values: status labels, entity IDs and peso amounts.
package textutil

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/printyhq/printy-assist/pkg/models"
)

type statusPrefix struct {
	prefix string
	status string
}

// Ordered prefix tables. Matching is first-hit, so more specific prefixes come
// before shorter ones that would shadow them.
var orderPrefixes = []statusPrefix{
	{"pend", models.OrderStatusPending},
	{"await", models.OrderStatusAwaitingPayment},
	{"payment", models.OrderStatusAwaitingPayment},
	{"verif", models.OrderStatusVerifyingPayment},
	{"for d", models.OrderStatusForDelivery},
	{"deliv", models.OrderStatusForDelivery},
	{"pick", models.OrderStatusForDelivery},
	{"comp", models.OrderStatusCompleted},
	{"cancel", models.OrderStatusCancelled},
}

var ticketPrefixes = []statusPrefix{
	{"open", models.TicketStatusOpen},
	{"in p", models.TicketStatusInProgress},
	{"prog", models.TicketStatusInProgress},
	{"resolv", models.TicketStatusResolved},
	{"solv", models.TicketStatusResolved},
	{"clos", models.TicketStatusClosed},
}

var servicePrefixes = []statusPrefix{
	{"inact", models.ServiceStatusInactive},
	{"unavail", models.ServiceStatusInactive},
	{"disab", models.ServiceStatusInactive},
	{"act", models.ServiceStatusActive},
	{"coming", models.ServiceStatusComingSoon},
	{"soon", models.ServiceStatusComingSoon},
}

func prefixesFor(kind models.EntityKind) []statusPrefix {
	switch kind {
	case models.KindOrder:
		return orderPrefixes
	case models.KindTicket:
		return ticketPrefixes
	case models.KindService:
		return servicePrefixes
	default:
		return nil
	}
}

// NormalizeStatus maps raw chat text to a canonical status label for the given
// entity kind. It tries a case-insensitive exact match first, then the ordered
// prefix table. ok=false means "reprompt with valid options" - callers must
// never substitute a default.
func NormalizeStatus(kind models.EntityKind, raw string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(raw))
	if needle == "" {
		return "", false
	}

	for _, status := range models.StatusesFor(kind) {
		if needle == strings.ToLower(status) {
			return status, true
		}
	}

	for _, p := range prefixesFor(kind) {
		if strings.HasPrefix(needle, p.prefix) {
			return p.status, true
		}
	}

	return "", false
}

var idPatterns = map[models.EntityKind]*regexp.Regexp{
	models.KindOrder:   regexp.MustCompile(`(?i)ORD-\d+`),
	models.KindTicket:  regexp.MustCompile(`(?i)TCK-\d+`),
	models.KindService: regexp.MustCompile(`(?i)SRV-[A-Z0-9]+`),
}

// ExtractIDs scans text for every non-overlapping entity ID of the given kind
// and returns them uppercased in order of appearance, duplicates included.
func ExtractIDs(kind models.EntityKind, text string) []string {
	pattern, ok := idPatterns[kind]
	if !ok {
		return nil
	}

	matches := pattern.FindAllString(text, -1)

	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, strings.ToUpper(m))
	}

	return ids
}

var (
	currencyPattern = regexp.MustCompile(`^(?:₱|PHP\s*)?\d{1,3}(?:,\d{3})*(?:\.\d{1,2})?$`)
	numberPattern   = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

// FormatPeso validates raw text as a plausible price and normalizes it into a
// peso-prefixed comma-grouped amount with two decimals. The check is
// intentionally permissive: either the whole text looks like a currency amount
// or it merely contains a digit somewhere.
func FormatPeso(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}

	candidate := trimmed
	if !currencyPattern.MatchString(candidate) {
		candidate = numberPattern.FindString(strings.ReplaceAll(trimmed, ",", ""))
		if candidate == "" {
			return "", false
		}
	}

	candidate = strings.TrimPrefix(candidate, "₱")
	candidate = strings.TrimSpace(strings.TrimPrefix(candidate, "PHP"))
	candidate = strings.ReplaceAll(candidate, ",", "")

	amount, err := strconv.ParseFloat(candidate, 64)
	if err != nil {
		return "", false
	}

	return "₱" + groupThousands(strconv.FormatFloat(amount, 'f', 2, 64)), true
}

func groupThousands(amount string) string {
	whole, fraction, _ := strings.Cut(amount, ".")

	var b strings.Builder

	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}

		b.WriteRune(digit)
	}

	if fraction != "" {
		b.WriteByte('.')
		b.WriteString(fraction)
	}

	return b.String()
}
