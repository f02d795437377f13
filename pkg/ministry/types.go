package ministry

import "time"

// DefaultPageSize is used when a paged read does not specify a limit.
const DefaultPageSize = 28

// Registration is a person signed up for an event.
type Registration struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Location  string    `bson:"location" json:"location"`
	Church    string    `bson:"church" json:"church"`
	Phone     string    `bson:"phone" json:"phone"`
	CheckedIn bool      `bson:"checked_in" json:"checked_in"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Post is a blog post. Image holds the storage key of the attached file,
// empty when the post has no image.
type Post struct {
	ID        string    `bson:"_id" json:"id"`
	Title     string    `bson:"title" json:"title"`
	Content   string    `bson:"content" json:"content"`
	Image     string    `bson:"image,omitempty" json:"image,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Event is a scheduled gathering. Time is a free-form label such as "7pm".
type Event struct {
	ID        string    `bson:"_id" json:"id"`
	Title     string    `bson:"title" json:"title"`
	Date      time.Time `bson:"date" json:"date"`
	Time      string    `bson:"time" json:"time"`
	Image     string    `bson:"image,omitempty" json:"image,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Document field names shared by every repository backend.
const (
	FieldTitle     = "title"
	FieldContent   = "content"
	FieldImage     = "image"
	FieldDate      = "date"
	FieldCheckedIn = "checked_in"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
)

// PostPage is one page of posts together with the number of pages available.
type PostPage struct {
	Posts      []*Post
	TotalPages int
}

// ObjectMeta contains metadata about an object in storage
type ObjectMeta struct {
	Key         string
	Size        int64
	ContentType string
	UpdatedAt   time.Time
	ETag        string
}

// UploadParams contains parameters for uploading an object
type UploadParams struct {
	ObjectKey string
	MimeType  string
}
