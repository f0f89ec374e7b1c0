package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/angelbv/cvweb-backend/config"
	"github.com/angelbv/cvweb-backend/database"
	"github.com/angelbv/cvweb-backend/errs"
	"github.com/angelbv/cvweb-backend/models"
	"github.com/angelbv/cvweb-backend/services"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// feedLimit is how many published posts the RSS feed carries.
const feedLimit = 20

type blogPostHandler struct {
	responder    Responder
	logger       zerolog.Logger
	blogPostRepo *database.BlogPostRepo
	blogTagRepo  *database.BlogTagRepo
	blogService  *services.BlogService
	baseURL      string
}

func newBlogPostHandler(blogPostRepo *database.BlogPostRepo, blogTagRepo *database.BlogTagRepo, blogService *services.BlogService, c map[string]string) blogPostHandler {
	logger := log.With().Str("handlerName", "blogPostHandler").Logger()

	return blogPostHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		blogPostRepo: blogPostRepo,
		blogTagRepo:  blogTagRepo,
		blogService:  blogService,
		baseURL:      strings.TrimSuffix(config.GetString(c, "BASE_URL", "http://localhost:8080"), "/"),
	}
}

// PostListing is one page of posts together with the tag cloud.
type PostListing struct {
	Posts     []*models.BlogPost `json:"posts"`
	Tags      []*models.BlogTag  `json:"tags"`
	TagCounts map[string]int     `json:"tag_counts"`
	Total     int64              `json:"total"`
	Pages     int                `json:"pages"`
	Page      int                `json:"page"`
	PerPage   int                `json:"per_page"`
}

// listPosts serves the public blog index: published posts only for anonymous
// callers, filtered by free text and tag, paginated with a clamped page size.
func (h blogPostHandler) listPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := callerFromCtx(r.Context())
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

		listing, err := h.blogPostRepo.List(database.PostFilter{
			Query:         r.URL.Query().Get("q"),
			Tag:           r.URL.Query().Get("tag"),
			Page:          page,
			PerPage:       perPage,
			IncludeDrafts: caller.Owner,
		})
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "blog posts", err))
			return
		}

		tags, err := h.blogTagRepo.FindAll()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "blog tags", err))
			return
		}
		tagCounts, err := h.blogTagRepo.PostCounts(caller.Owner)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("count", "blog tags", err))
			return
		}

		h.responder.WriteJSON(w, PostListing{
			Posts:     listing.Posts,
			Tags:      tags,
			TagCounts: tagCounts,
			Total:     listing.Total,
			Pages:     listing.Pages,
			Page:      listing.Page,
			PerPage:   listing.PerPage,
		})
	}
}

// getPost serves a single post by slug; drafts stay hidden from anonymous callers
func (h blogPostHandler) getPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		if slug == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing post slug"))
			return
		}

		caller := callerFromCtx(r.Context())
		post, err := h.blogPostRepo.FindBySlug(slug, caller.Owner)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "blog post", err))
			return
		}
		if post == nil {
			h.responder.WriteError(w, errs.NewNotFound("blog post"))
			return
		}

		h.responder.WriteJSON(w, post)
	}
}

// listTags serves the tag cloud with per-tag published post counts
func (h blogPostHandler) listTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := h.blogTagRepo.FindAll()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "blog tags", err))
			return
		}
		counts, err := h.blogTagRepo.PostCounts(callerFromCtx(r.Context()).Owner)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("count", "blog tags", err))
			return
		}

		h.responder.WriteJSON(w, map[string]interface{}{
			"tags":   tags,
			"counts": counts,
		})
	}
}

// listAllPosts serves the admin listing, drafts included
func (h blogPostHandler) listAllPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := h.blogPostRepo.FindAll()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "blog posts", err))
			return
		}

		h.responder.WriteJSON(w, map[string]interface{}{
			"posts": posts,
			"total": len(posts),
		})
	}
}

// createPost creates a blog post from a multipart form with an optional cover image
func (h blogPostHandler) createPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed multipart form"))
			return
		}

		cover, closeCover, err := coverFromForm(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		defer closeCover()

		post, err := h.blogService.Create(r.Context(), callerFromCtx(r.Context()), postInputFromForm(r), cover)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, post)
	}
}

// updatePost replaces a post's fields, tag set, and cover image
func (h blogPostHandler) updatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := uuid.Parse(chi.URLParam(r, "blogPostID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid blogPostID"))
			return
		}

		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed multipart form"))
			return
		}

		cover, closeCover, err := coverFromForm(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		defer closeCover()

		post, err := h.blogService.Update(r.Context(), callerFromCtx(r.Context()), postID, postInputFromForm(r), cover)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, post)
	}
}

// deletePost deletes a post and its cover file
func (h blogPostHandler) deletePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := uuid.Parse(chi.URLParam(r, "blogPostID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid blogPostID"))
			return
		}

		if err := h.blogService.Delete(r.Context(), callerFromCtx(r.Context()), postID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "blog post deleted successfully",
		})
	}
}

// rss serves the feed of the most recent published posts.
func (h blogPostHandler) rss() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := h.blogPostRepo.RecentPublished(feedLimit)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "blog posts", err))
			return
		}

		var items strings.Builder
		for _, p := range posts {
			link := fmt.Sprintf("%s/blog/%s", h.baseURL, p.Slug)
			at := p.CreatedAt
			if p.PublishedAt != nil {
				at = *p.PublishedAt
			}
			excerpt := ""
			if p.Excerpt != nil {
				excerpt = *p.Excerpt
			}
			fmt.Fprintf(&items, `
    <item>
      <title><![CDATA[%s]]></title>
      <link>%s</link>
      <guid>%s</guid>
      <pubDate>%s</pubDate>
      <description><![CDATA[%s]]></description>
    </item>`,
				cdataEscape(p.Title), link, link,
				at.UTC().Format("Mon, 02 Jan 2006 15:04:05 -0700"),
				cdataEscape(excerpt))
		}

		xml := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Angel Burgos - Blog</title>
    <link>%s/blog</link>
    <description>Posts on data engineering, backend development, and DevOps.</description>%s
  </channel>
</rss>
`, h.baseURL, items.String())

		w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
		w.Write([]byte(xml))
	}
}

// cdataEscape keeps arbitrary text safe inside a CDATA block.
func cdataEscape(s string) string {
	return strings.ReplaceAll(s, "]]>", "]]]]><![CDATA[>")
}

func postInputFromForm(r *http.Request) services.PostInput {
	return services.PostInput{
		Title:           r.FormValue("title"),
		Slug:            r.FormValue("slug"),
		Excerpt:         r.FormValue("excerpt"),
		Content:         r.FormValue("content"),
		MetaTitle:       r.FormValue("meta_title"),
		MetaDescription: r.FormValue("meta_description"),
		Tags:            r.FormValue("tags"),
		IsPublished:     r.FormValue("is_published") == "on" || r.FormValue("is_published") == "true",
		PublishedAt:     r.FormValue("published_at"),
		RemoveCover:     r.FormValue("remove_cover") == "on" || r.FormValue("remove_cover") == "true",
	}
}

// coverFromForm opens the single optional cover upload.
func coverFromForm(r *http.Request) (*services.ImageUpload, func(), error) {
	noop := func() {}
	if r.MultipartForm == nil {
		return nil, noop, nil
	}
	headers := r.MultipartForm.File["cover_image"]
	if len(headers) == 0 || headers[0].Filename == "" {
		return nil, noop, nil
	}
	f, err := headers[0].Open()
	if err != nil {
		return nil, noop, errs.NewBadRequestError("failed to read uploaded cover image")
	}
	return &services.ImageUpload{Filename: headers[0].Filename, Content: f}, func() { f.Close() }, nil
}
