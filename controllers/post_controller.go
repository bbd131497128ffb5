package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/gossip/models"
	"github.com/cppla/gossip/utils"
)

// PostController serves the posts screen of a topic and the post dialogs.
type PostController struct {
	forum ForumAPI
}

func NewPostController(forum ForumAPI) *PostController {
	return &PostController{forum: forum}
}

type postRow struct {
	models.Post
	Owned bool
}

type postsPage struct {
	Page
	TopicID   int64
	TopicName string
	Search    searchBox
	Posts     []postRow
}

func postsURL(topicID int64) string {
	return fmt.Sprintf("/topics/%d/posts", topicID)
}

// ListPosts renders the posts of one topic matching the q filter.
func (p *PostController) ListPosts(ctx *gin.Context) {
	topicID, ok := paramID(ctx, "topicID")
	if !ok {
		notFound(ctx, "/topics", "Topic")
		return
	}
	query := strings.TrimSpace(ctx.Query("q"))
	page := postsPage{
		Page:      newPage(ctx, "Posts"),
		TopicID:   topicID,
		TopicName: p.topicName(ctx, topicID),
		Search:    searchBox{Action: postsURL(topicID), Query: query},
		Posts:     []postRow{},
	}

	posts, err := p.forum.FetchPosts(ctx.Request.Context(), credsOf(ctx), topicID)
	if err != nil {
		page.Notice = utils.ErrorNotice(failureText(err, "Failed To Fetch Posts"))
		ctx.HTML(http.StatusOK, "posts.html", page)
		return
	}

	me := identityOf(ctx)
	for _, post := range models.FilterAndSort(posts, query) {
		page.Posts = append(page.Posts, postRow{Post: post, Owned: me.Owns(post.UserID)})
	}
	ctx.HTML(http.StatusOK, "posts.html", page)
}

// topicName is best effort; the heading falls back to "Posts".
func (p *PostController) topicName(ctx *gin.Context, topicID int64) string {
	topics, err := p.forum.FetchTopics(ctx.Request.Context(), credsOf(ctx))
	if err != nil {
		return "Posts"
	}
	if topic, ok := findTopic(topics, topicID); ok {
		return topic.Name
	}
	return "Posts"
}

func (p *PostController) createModal(ctx *gin.Context, topicID int64) *Modal {
	creds := credsOf(ctx)
	return NewModal(ModalConfig{
		Heading:  "Create a New Post",
		Action:   postsURL(topicID) + "/new",
		ReturnTo: postsURL(topicID),
		Fields: []Field{
			{Name: "title", Label: "Title", Required: "Please Enter A Title"},
			{Name: "content", Label: "Content", Multiline: true, Required: "Please Enter Content"},
		},
		SubmitLabel: "Post",
		Success:     "Post Created Successfully!",
		Fallback:    "Failed To Create Post",
		Submit: func(c context.Context, v map[string]string) error {
			return p.forum.AddPost(c, creds, topicID, v["title"], v["content"])
		},
	})
}

func (p *PostController) NewPost(ctx *gin.Context) {
	topicID, ok := paramID(ctx, "topicID")
	if !ok {
		notFound(ctx, "/topics", "Topic")
		return
	}
	p.createModal(ctx, topicID).Show(ctx, nil)
}

func (p *PostController) CreatePost(ctx *gin.Context) {
	topicID, ok := paramID(ctx, "topicID")
	if !ok {
		notFound(ctx, "/topics", "Topic")
		return
	}
	p.createModal(ctx, topicID).Handle(ctx)
}

func (p *PostController) updateModal(ctx *gin.Context, topicID, postID int64) *Modal {
	creds := credsOf(ctx)
	return NewModal(ModalConfig{
		Heading:  "Update Post",
		Action:   fmt.Sprintf("%s/%d/edit", postsURL(topicID), postID),
		ReturnTo: postsURL(topicID),
		Fields: []Field{
			{Name: "title", Label: "Title", Required: "Please Enter A Title"},
			{Name: "content", Label: "Content", Multiline: true, Required: "Please Enter Content"},
		},
		SubmitLabel: "Update",
		Success:     "Post Updated Successfully!",
		Fallback:    "Failed To Update Post",
		Submit: func(c context.Context, v map[string]string) error {
			if _, err := p.ownedPost(ctx, topicID, postID); err != nil {
				return err
			}
			return p.forum.UpdatePost(c, creds, postID, v["title"], v["content"])
		},
	})
}

func (p *PostController) EditPost(ctx *gin.Context) {
	topicID, postID, ok := postParams(ctx)
	if !ok {
		notFound(ctx, "/topics", "Post")
		return
	}
	post, err := p.ownedPost(ctx, topicID, postID)
	if err != nil {
		redirectWithNotice(ctx, postsURL(topicID), utils.ErrorNotice(failureText(err, "Failed To Fetch Posts")))
		return
	}
	p.updateModal(ctx, topicID, postID).Show(ctx, map[string]string{"title": post.Title, "content": post.Content})
}

func (p *PostController) UpdatePost(ctx *gin.Context) {
	topicID, postID, ok := postParams(ctx)
	if !ok {
		notFound(ctx, "/topics", "Post")
		return
	}
	p.updateModal(ctx, topicID, postID).Handle(ctx)
}

func (p *PostController) deleteModal(ctx *gin.Context, topicID, postID int64, title string) *Modal {
	creds := credsOf(ctx)
	return NewModal(ModalConfig{
		Heading:  "Delete Post",
		Action:   fmt.Sprintf("%s/%d/delete", postsURL(topicID), postID),
		ReturnTo: postsURL(topicID),
		Confirm: func() string {
			return deleteQuestion(title, "this post")
		},
		SubmitLabel: "Delete",
		Success:     "Post Deleted Successfully!",
		Fallback:    "Failed To Delete Post",
		Submit: func(c context.Context, _ map[string]string) error {
			post, err := p.ownedPost(ctx, topicID, postID)
			if post.Title != "" {
				title = post.Title
			}
			if err != nil {
				return err
			}
			return p.forum.DeletePost(c, creds, postID)
		},
	})
}

func (p *PostController) ConfirmDeletePost(ctx *gin.Context) {
	topicID, postID, ok := postParams(ctx)
	if !ok {
		notFound(ctx, "/topics", "Post")
		return
	}
	post, err := p.ownedPost(ctx, topicID, postID)
	if err != nil {
		redirectWithNotice(ctx, postsURL(topicID), utils.ErrorNotice(failureText(err, "Failed To Fetch Posts")))
		return
	}
	p.deleteModal(ctx, topicID, postID, post.Title).Show(ctx, nil)
}

func (p *PostController) DeletePost(ctx *gin.Context) {
	topicID, postID, ok := postParams(ctx)
	if !ok {
		notFound(ctx, "/topics", "Post")
		return
	}
	p.deleteModal(ctx, topicID, postID, "").Handle(ctx)
}

var (
	errPostNotFound = errors.New("post not found")
	errNotYourPost  = errors.New("you can only change your own posts")
)

// ownedPost is ownedTopic for posts.
func (p *PostController) ownedPost(ctx *gin.Context, topicID, postID int64) (models.Post, error) {
	post, err := findPost(ctx, p.forum, topicID, postID)
	if err != nil {
		return models.Post{}, err
	}
	if !identityOf(ctx).Owns(post.UserID) {
		return post, errNotYourPost
	}
	return post, nil
}

// findPost looks a post up through its topic's list; the API has no single-post read.
func findPost(ctx *gin.Context, forum ForumAPI, topicID, postID int64) (models.Post, error) {
	posts, err := forum.FetchPosts(ctx.Request.Context(), credsOf(ctx), topicID)
	if err != nil {
		return models.Post{}, err
	}
	for _, post := range posts {
		if post.ID == postID {
			return post, nil
		}
	}
	return models.Post{}, errPostNotFound
}

func postParams(ctx *gin.Context) (int64, int64, bool) {
	topicID, ok := paramID(ctx, "topicID")
	if !ok {
		return 0, 0, false
	}
	postID, ok := paramID(ctx, "postID")
	if !ok {
		return 0, 0, false
	}
	return topicID, postID, true
}
