package http

import "net/http"

type postView struct {
	Title   string
	Content string
	Posted  string
}

type postsPage struct {
	Posts []postView
	Error string
}

func (h *handlers) postsHandler(w http.ResponseWriter, r *http.Request) {
	var page postsPage

	posts, err := h.store.ListPosts(r.Context())
	if err != nil {
		h.log.Warn("listing posts failed", "path", r.URL.Path, "error", err)
		page.Error = "Database error: " + err.Error()
	}
	for _, p := range posts {
		page.Posts = append(page.Posts, postView{
			Title:   p.Title,
			Content: p.Content,
			Posted:  formatTime(p.CreatedAt),
		})
	}
	h.render(w, r, "posts.html", page)
}
