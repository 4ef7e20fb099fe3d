// Package domain holds the core types shared across the outreach service:
// operators, company email formats, sent mail, reusable templates, and the
// error taxonomy the HTTP layer maps onto status codes.
package domain
