// Package domain normalizes and validates the website a rank tracking
// session is about.
//
// Users type domains in every form: "acme.com", "acme.com/",
// "https://www.acme.com//", "HTTP://acme.com". Normalize produces one
// canonical URL string for storage and prompts; IsValidDomain gates the
// check command; Host and SameSite compare the URL a model reports as
// ranking against the tracked domain.
package domain
