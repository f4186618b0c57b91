// Package dto holds request and response bodies for the blog endpoints.
package dto

// CreateBlogReq is the body of POST /blog/blogs. Emptiness after trimming is
// checked by the usecase.
type CreateBlogReq struct {
	Title   string `json:"title" binding:"required,max=255"`
	Content string `json:"content" binding:"required"`
}

// UpdateBlogReq is the body of PUT /blog/blogs/:id. Omitted fields keep their
// stored value.
type UpdateBlogReq struct {
	Title   string `json:"title" binding:"max=255"`
	Content string `json:"content"`
}
