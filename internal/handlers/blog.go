package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/lebadvisor/lebadvisor-api/internal/models"
	"gorm.io/gorm"
)

// BlogHandler serves the published travel blog. Posts are keyed by slug; only
// published posts are visible.
type BlogHandler struct {
	db *gorm.DB
}

func NewBlogHandler(db *gorm.DB) *BlogHandler {
	return &BlogHandler{db: db}
}

type BlogPostsRequest struct {
	CategorySlug string `query:"category" doc:"Filter by blog category slug"`
}

type BlogPostsResponse struct {
	Body []models.BlogPost
}

func (h *BlogHandler) HandleListPosts(ctx context.Context, input *BlogPostsRequest) (*BlogPostsResponse, error) {
	q := h.db.WithContext(ctx).
		Preload("Category").Preload("Author").
		Where("published = ?", true).
		Order("published_at DESC")
	if input.CategorySlug != "" {
		q = q.Joins("JOIN blog_categories ON blog_categories.id = blog_posts.category_id").
			Where("blog_categories.slug = ?", input.CategorySlug)
	}
	res := &BlogPostsResponse{}
	if err := q.Find(&res.Body).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list posts")
	}
	return res, nil
}

type BlogPostRequest struct {
	Slug string `path:"slug"`
}

type BlogPostResponse struct {
	Body models.BlogPost
}

func (h *BlogHandler) HandleGetPost(ctx context.Context, input *BlogPostRequest) (*BlogPostResponse, error) {
	res := &BlogPostResponse{}
	err := h.db.WithContext(ctx).
		Preload("Category").Preload("Author").
		Where("slug = ? AND published = ?", input.Slug, true).
		First(&res.Body).Error
	if err != nil {
		return nil, huma.Error404NotFound("Post not found")
	}
	return res, nil
}

type BlogCategoriesResponse struct {
	Body []models.BlogCategory
}

func (h *BlogHandler) HandleListBlogCategories(ctx context.Context, input *struct{}) (*BlogCategoriesResponse, error) {
	res := &BlogCategoriesResponse{}
	if err := h.db.WithContext(ctx).Find(&res.Body).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list categories")
	}
	return res, nil
}
