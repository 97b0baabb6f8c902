// Package integrity provides health checks for the infrastructure the tour
// workflow depends on.
//
// # Checks Provided
//
//   - Structure: the orphan archive folders exist in the storage bucket, one per category.
//   - Schema: the tour tables carry every column mapped by their gorm models.
//   - Catalog: the TourAPI list operation answers for every category with the configured key.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/structure : Runs structure check (supports ?fix=true).
//   - GET /integrity/schema : Runs schema check.
//   - GET /integrity/catalog : Runs catalog check.
package integrity
