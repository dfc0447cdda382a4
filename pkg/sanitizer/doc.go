// Package sanitizer normalizes guest-entered text before validation and storage.
//
// All functions are idempotent. Invalid input is returned trimmed rather than
// rejected; rejection is the validator's job.
//
// Normalization includes:
//   - Phone numbers: E.164 when the number parses for one of the given regions
//   - Names and subjects: collapse whitespace, trim
//   - Emails: trim and lowercase
//   - Free text (notes, messages): strip control characters, keep line breaks
package sanitizer
