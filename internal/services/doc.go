// Package services implements the business logic layer of the
// dashboard. DataService owns dataset loading and memoization, and
// HealthService reports readiness of the data directory.
package services
