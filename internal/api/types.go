// Copyright (c) 2025-2026 89T Corporate Advisors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import "time"

// Role values used by the admin panel. Role is the only authorization
// axis the API exposes to this application.
const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// User is an admin panel account as returned by the API.
type User struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsSuperAdmin reports whether the user holds the super_admin role.
func (u User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}

// Section is one editable block of a page. SectionID is unique within a
// page; only sections with IsActive=true are eligible for display.
type Section struct {
	SectionID  string `json:"sectionId"`
	Title      string `json:"title,omitempty"`
	Subtitle   string `json:"subtitle,omitempty"`
	Content    string `json:"content,omitempty"`
	ButtonText string `json:"buttonText,omitempty"`
	ButtonLink string `json:"buttonLink,omitempty"`
	ImageURL   string `json:"imageUrl,omitempty"`
	Order      int    `json:"order"`
	IsActive   bool   `json:"isActive"`
}

// PageContent holds the editable sections for one public page.
type PageContent struct {
	ID       string    `json:"_id"`
	Page     string    `json:"page"`
	Sections []Section `json:"sections"`
}

// Service is one advisory service offering.
type Service struct {
	ID               string    `json:"_id"`
	Title            string    `json:"title"`
	Slug             string    `json:"slug"`
	ShortDescription string    `json:"shortDescription"`
	Description      string    `json:"description"` // markdown
	Image            string    `json:"image"`
	Features         []string  `json:"features"`
	IsActive         bool      `json:"isActive"`
	Order            int       `json:"order"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// BlogStatus values.
const (
	BlogStatusDraft     = "draft"
	BlogStatusPublished = "published"
)

// BlogAuthor is the embedded author reference on a blog post.
type BlogAuthor struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// BlogPost is a blog article. Content is markdown.
type BlogPost struct {
	ID            string     `json:"_id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Excerpt       string     `json:"excerpt"`
	Content       string     `json:"content"`
	FeaturedImage string     `json:"featuredImage,omitempty"`
	Author        BlogAuthor `json:"author"`
	Category      string     `json:"category"`
	Tags          []string   `json:"tags"`
	Status        string     `json:"status"`
	PublishedAt   *time.Time `json:"publishedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Published reports whether the post is visible on the public blog.
func (p BlogPost) Published() bool {
	return p.Status == BlogStatusPublished
}

// PublishDate returns the date used for public ordering: publishedAt
// when present, createdAt otherwise.
func (p BlogPost) PublishDate() time.Time {
	if p.PublishedAt != nil && !p.PublishedAt.IsZero() {
		return *p.PublishedAt
	}
	return p.CreatedAt
}

// Contact status values.
const (
	ContactStatusNew      = "new"
	ContactStatusRead     = "read"
	ContactStatusReplied  = "replied"
	ContactStatusArchived = "archived"
)

// Contact is a contact-form submission held in the inbox.
type Contact struct {
	ID              string    `json:"_id"`
	FullName        string    `json:"fullName"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	ServiceInterest string    `json:"serviceInterest"`
	Message         string    `json:"message"`
	Status          string    `json:"status"`
	Notes           string    `json:"notes"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ContactForm is the payload for a public contact submission.
type ContactForm struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	ServiceInterest string `json:"serviceInterest"`
	Message         string `json:"message"`
	TurnstileToken  string `json:"turnstileToken,omitempty"`
}

// InboxStats summarizes inbox messages by status.
type InboxStats struct {
	Total    int `json:"total"`
	New      int `json:"new"`
	Read     int `json:"read"`
	Replied  int `json:"replied"`
	Archived int `json:"archived"`
}

// CompanyInfo holds the registered-company block of the site settings.
type CompanyInfo struct {
	CIN               string `json:"cin"`
	IncorporationDate string `json:"incorporationDate"`
	Status            string `json:"status"`
}

// SocialLinks holds the social profile URLs of the site settings.
type SocialLinks struct {
	Facebook  string `json:"facebook"`
	Twitter   string `json:"twitter"`
	LinkedIn  string `json:"linkedin"`
	Instagram string `json:"instagram"`
}

// Settings is the singleton site configuration document.
type Settings struct {
	ID              string      `json:"_id"`
	SiteName        string      `json:"siteName"`
	SiteDescription string      `json:"siteDescription"`
	ContactEmail    string      `json:"contactEmail"`
	ContactPhone    string      `json:"contactPhone"`
	Address         string      `json:"address"`
	CompanyInfo     CompanyInfo `json:"companyInfo"`
	SocialLinks     SocialLinks `json:"socialLinks"`
	Logo            string      `json:"logo"`
	Favicon         string      `json:"favicon"`
	OGImage         string      `json:"ogImage,omitempty"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// AuthResult is the user+token pair returned by login and setup.
type AuthResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
