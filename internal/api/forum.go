package api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/gametracker/gametracker/internal/session"
)

// ForumPost is a discussion thread.
type ForumPost struct {
	ID           string        `json:"_id"`
	Title        string        `json:"titulo"`
	Content      string        `json:"contenido"`
	Category     string        `json:"categoria"`
	Tags         []string      `json:"tags"`
	Author       *session.User `json:"usuarioId,omitempty"`
	Likes        []string      `json:"likes"`
	Views        int           `json:"vistas"`
	Pinned       bool          `json:"isPinned"`
	Closed       bool          `json:"isClosed"`
	CommentCount int           `json:"commentCount"`
	CreatedAt    time.Time     `json:"fechaCreacion"`
}

// ForumComment is a comment on a post. Replies nest one level deep.
type ForumComment struct {
	ID        string         `json:"_id"`
	PostID    string         `json:"postId"`
	Content   string         `json:"contenido"`
	Author    *session.User  `json:"usuarioId,omitempty"`
	Likes     []string       `json:"likes"`
	Edited    bool           `json:"isEdited"`
	Replies   []ForumComment `json:"replies,omitempty"`
	CreatedAt time.Time      `json:"fechaCreacion"`
}

// PostInput are the create/update fields of a post.
type PostInput struct {
	Title    string   `json:"titulo" validate:"required"`
	Content  string   `json:"contenido" validate:"required"`
	Category string   `json:"categoria" validate:"required"`
	Tags     []string `json:"tags"`
}

// CommentInput are the create/update fields of a comment. ParentID is
// set when replying to another comment.
type CommentInput struct {
	PostID   string `json:"postId" validate:"required"`
	Content  string `json:"contenido" validate:"required"`
	ParentID string `json:"parentId,omitempty"`
}

// ListPosts retrieves forum posts. Params are passed through as query
// parameters (category, search, ...).
func (c *Client) ListPosts(ctx context.Context, params url.Values) ([]ForumPost, error) {
	path := "/forum/posts"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var posts []ForumPost
	if err := c.get(ctx, path, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPost retrieves a post by ID.
func (c *Client) GetPost(ctx context.Context, id string) (*ForumPost, error) {
	var post ForumPost
	if err := c.get(ctx, "/forum/posts/"+pathEscape(id), &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// CreatePost opens a new discussion thread.
func (c *Client) CreatePost(ctx context.Context, input PostInput) (*ForumPost, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/forum/posts", input)
	if err != nil {
		return nil, err
	}

	var post ForumPost
	if err := parseResponse(resp, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePost edits a post.
func (c *Client) UpdatePost(ctx context.Context, id string, input PostInput) (*ForumPost, error) {
	resp, err := c.doRequest(ctx, http.MethodPut, "/forum/posts/"+pathEscape(id), input)
	if err != nil {
		return nil, err
	}

	var post ForumPost
	if err := parseResponse(resp, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost removes a post.
func (c *Client) DeletePost(ctx context.Context, id string) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, "/forum/posts/"+pathEscape(id), nil)
	if err != nil {
		return err
	}
	return parseResponse(resp, nil)
}

// ToggleLikePost likes or unlikes a post.
func (c *Client) ToggleLikePost(ctx context.Context, id string) (*ForumPost, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/forum/posts/"+pathEscape(id)+"/like", nil)
	if err != nil {
		return nil, err
	}

	var post ForumPost
	if err := parseResponse(resp, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// ListComments retrieves the comment tree of a post.
func (c *Client) ListComments(ctx context.Context, postID string) ([]ForumComment, error) {
	var comments []ForumComment
	if err := c.get(ctx, "/forum/posts/"+pathEscape(postID)+"/comments", &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// CreateComment adds a comment (or a reply, when ParentID is set).
func (c *Client) CreateComment(ctx context.Context, input CommentInput) (*ForumComment, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/forum/comments", input)
	if err != nil {
		return nil, err
	}

	var comment ForumComment
	if err := parseResponse(resp, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// UpdateComment edits a comment.
func (c *Client) UpdateComment(ctx context.Context, id, content string) (*ForumComment, error) {
	body := map[string]string{"contenido": content}
	resp, err := c.doRequest(ctx, http.MethodPut, "/forum/comments/"+pathEscape(id), body)
	if err != nil {
		return nil, err
	}

	var comment ForumComment
	if err := parseResponse(resp, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment removes a comment.
func (c *Client) DeleteComment(ctx context.Context, id string) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, "/forum/comments/"+pathEscape(id), nil)
	if err != nil {
		return err
	}
	return parseResponse(resp, nil)
}

// ToggleLikeComment likes or unlikes a comment.
func (c *Client) ToggleLikeComment(ctx context.Context, id string) (*ForumComment, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/forum/comments/"+pathEscape(id)+"/like", nil)
	if err != nil {
		return nil, err
	}

	var comment ForumComment
	if err := parseResponse(resp, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}
