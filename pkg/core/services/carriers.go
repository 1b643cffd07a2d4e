package services

import (
	"fmt"
	"strings"

	"github.com/dashort/ride-sub002/internal/config"
)

// carrierDomains maps lowercase carrier names to their email-to-SMS gateway
// domains. Config carrierDomains entries are merged over this table;
// unknown or blank carriers fall back to the configured default domain.
var carrierDomains = map[string]string{
	"verizon":       "vtext.com",
	"att":           "txt.att.net",
	"at&t":          "txt.att.net",
	"tmobile":       "tmomail.net",
	"t-mobile":      "tmomail.net",
	"sprint":        "messaging.sprintpcs.com",
	"boost":         "sms.myboostmobile.com",
	"boost mobile":  "sms.myboostmobile.com",
	"cricket":       "sms.cricketwireless.net",
	"metropcs":      "mymetropcs.com",
	"metro":         "mymetropcs.com",
	"uscellular":    "email.uscc.net",
	"us cellular":   "email.uscc.net",
	"virgin":        "vmobl.com",
	"virgin mobile": "vmobl.com",
	"google fi":     "msg.fi.google.com",
	"googlefi":      "msg.fi.google.com",
}

// NormalizePhone strips everything but digits and drops a leading country
// code 1 from 11-digit numbers. The result is only usable as an SMS relay
// address when it is exactly 10 digits; callers must check.
func NormalizePhone(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	normalized := digits.String()
	if len(normalized) == 11 && normalized[0] == '1' {
		normalized = normalized[1:]
	}
	return normalized
}

// SMSAddress builds the carrier relay address for a phone number. Returns
// an error when the phone does not normalize to exactly 10 digits; no send
// is attempted in that case.
func SMSAddress(phone, carrier string, cfg *config.Config) (string, error) {
	digits := NormalizePhone(phone)
	if len(digits) != 10 {
		return "", fmt.Errorf("phone %q does not normalize to 10 digits", phone)
	}

	domain := carrierDomain(carrier, cfg)
	return digits + "@" + domain, nil
}

// carrierDomain resolves a carrier name to its gateway domain, preferring
// config overrides, then the built-in table, then the default.
func carrierDomain(carrier string, cfg *config.Config) string {
	key := strings.ToLower(strings.TrimSpace(carrier))

	if cfg != nil {
		if domain, ok := cfg.CarrierDomains[key]; ok {
			return domain
		}
	}
	if domain, ok := carrierDomains[key]; ok {
		return domain
	}
	if cfg != nil && cfg.DefaultSMSDomain != "" {
		return cfg.DefaultSMSDomain
	}
	return "vtext.com"
}
