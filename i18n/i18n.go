// Package i18n holds the message catalog for validation codes and API
// errors, in French (default) and English.
package i18n

import (
	"context"
	"strings"
)

const Default = "fr"

var catalog = map[string]map[string]string{
	"fr": {
		"required":                 "Requis",
		"must_be_positive":         "Doit être positif",
		"out_of_range":             "Hors limites",
		"invalid_date":             "Date invalide (AAAA-MM-JJ)",
		"invalid_time":             "Heure invalide (HH:MM)",
		"invalid_email":            "Adresse email invalide",
		"invalid_choice":           "Valeur non autorisée",
		"invalid_tooth":            "Numéro de dent invalide",
		"invalid_id":               "Identifiant invalide",
		"invalid_body":             "Corps de requête invalide",
		"unknown_procedure":        "Acte inconnu",
		"invoice_patient_mismatch": "La facture n'appartient pas à ce patient",
		"not_found":                "Introuvable",
		"conflict":                 "Conflit avec un enregistrement existant",
		"validation_failed":        "Données invalides",
		"internal_error":           "Erreur interne",
	},
	"en": {
		"required":                 "Required",
		"must_be_positive":         "Must be positive",
		"out_of_range":             "Out of range",
		"invalid_date":             "Invalid date (YYYY-MM-DD)",
		"invalid_time":             "Invalid time (HH:MM)",
		"invalid_email":            "Invalid email address",
		"invalid_choice":           "Value not allowed",
		"invalid_tooth":            "Invalid tooth number",
		"invalid_id":               "Invalid identifier",
		"invalid_body":             "Invalid request body",
		"unknown_procedure":        "Unknown procedure",
		"invoice_patient_mismatch": "Invoice belongs to another patient",
		"not_found":                "Not found",
		"conflict":                 "Conflicts with an existing record",
		"validation_failed":        "Validation failed",
		"internal_error":           "Internal error",
	},
}

// DetectLanguage picks "en" or "fr" from an Accept-Language header.
func DetectLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		base := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if _, ok := catalog[base]; ok {
			return base
		}
	}
	return Default
}

// T translates code. Unknown languages fall back to French, unknown codes
// to the code itself.
func T(lang, code string) string {
	if msgs, ok := catalog[lang]; ok {
		if s, ok := msgs[code]; ok {
			return s
		}
	}
	if s, ok := catalog[Default][code]; ok {
		return s
	}
	return code
}

// TranslateAll returns a copy of fields with every code translated.
func TranslateAll(lang string, fields map[string]string) map[string]string {
	if len(fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(fields))
	for k, code := range fields {
		out[k] = T(lang, code)
	}
	return out
}

type langKey struct{}

func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langKey{}, lang)
}

// LangFromContext returns the request language, or Default.
func LangFromContext(ctx context.Context) string {
	if l, ok := ctx.Value(langKey{}).(string); ok && l != "" {
		return l
	}
	return Default
}
