// Package ministry provides the backend for the ministry site: event
// registrations, blog posts, events and their uploaded images.
//
// A single Service orchestrates a Repository (generic document collections
// for each record shape) and a MediaStore (uploaded files on a BlobStore).
// Implementations of repositories (memory, MongoDB, Postgres JSONB) and blob
// stores (memory, filesystem, S3) are provided under subpackages.
//
// Image lifecycle
//
// Records persist only the opaque storage key of their image. Within a single
// call the file side effect always runs before the record write: creating
// stores the file then inserts, replacing stores the new file, deletes the old
// one and then saves, deleting removes the file then the record. No
// transaction spans the two, so a failed record write can leave an orphaned
// file behind.
package ministry
