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

// CommentController serves the post detail screen with its comments.
type CommentController struct {
	forum ForumAPI
}

func NewCommentController(forum ForumAPI) *CommentController {
	return &CommentController{forum: forum}
}

type commentRow struct {
	models.Comment
	Owned bool
}

type postPage struct {
	Page
	TopicID  int64
	Post     postRow
	Search   searchBox
	Comments []commentRow
}

func postURL(topicID, postID int64) string {
	return fmt.Sprintf("/topics/%d/posts/%d", topicID, postID)
}

// ShowPost renders one post and its comments matching the q filter.
func (cc *CommentController) ShowPost(ctx *gin.Context) {
	topicID, postID, ok := postParams(ctx)
	if !ok {
		notFound(ctx, "/topics", "Post")
		return
	}
	post, err := findPost(ctx, cc.forum, topicID, postID)
	if errors.Is(err, errPostNotFound) {
		notFound(ctx, postsURL(topicID), "Post")
		return
	}
	if err != nil {
		redirectWithNotice(ctx, postsURL(topicID), utils.ErrorNotice(failureText(err, "Failed To Fetch Posts")))
		return
	}

	me := identityOf(ctx)
	query := strings.TrimSpace(ctx.Query("q"))
	page := postPage{
		Page:     newPage(ctx, post.Title),
		TopicID:  topicID,
		Post:     postRow{Post: post, Owned: me.Owns(post.UserID)},
		Search:   searchBox{Action: postURL(topicID, postID), Query: query},
		Comments: []commentRow{},
	}

	comments, err := cc.forum.FetchComments(ctx.Request.Context(), credsOf(ctx), postID)
	if err != nil {
		page.Notice = utils.ErrorNotice(failureText(err, "Failed To Fetch Comments"))
		ctx.HTML(http.StatusOK, "post.html", page)
		return
	}
	for _, comment := range models.FilterAndSort(comments, query) {
		page.Comments = append(page.Comments, commentRow{Comment: comment, Owned: me.Owns(comment.UserID)})
	}
	ctx.HTML(http.StatusOK, "post.html", page)
}

// CreateComment handles the inline comment box of the post screen.
func (cc *CommentController) CreateComment(ctx *gin.Context) {
	topicID, postID, ok := postParams(ctx)
	if !ok {
		notFound(ctx, "/topics", "Post")
		return
	}
	creds := credsOf(ctx)
	NewModal(ModalConfig{
		Heading:  "Add Comment",
		Action:   postURL(topicID, postID) + "/comments",
		ReturnTo: postURL(topicID, postID),
		Fields: []Field{
			{Name: "content", Label: "Comment", Multiline: true, Required: "Please Enter A Comment"},
		},
		SubmitLabel: "Comment",
		Success:     "Comment Posted Successfully!",
		Fallback:    "Failed To Post Comment",
		Submit: func(c context.Context, v map[string]string) error {
			return cc.forum.AddComment(c, creds, postID, v["content"])
		},
	}).Handle(ctx)
}

func commentURL(topicID, postID, commentID int64) string {
	return fmt.Sprintf("%s/comments/%d", postURL(topicID, postID), commentID)
}

func (cc *CommentController) updateModal(ctx *gin.Context, topicID, postID, commentID int64) *Modal {
	creds := credsOf(ctx)
	return NewModal(ModalConfig{
		Heading:  "Update Comment",
		Action:   commentURL(topicID, postID, commentID) + "/edit",
		ReturnTo: postURL(topicID, postID),
		Fields: []Field{
			{Name: "content", Label: "Comment", Multiline: true, Required: "Please Enter Content"},
		},
		SubmitLabel: "Update",
		Success:     "Comment Updated Successfully!",
		Fallback:    "Failed To Update Comment",
		Submit: func(c context.Context, v map[string]string) error {
			if _, err := cc.ownedComment(ctx, postID, commentID); err != nil {
				return err
			}
			return cc.forum.UpdateComment(c, creds, commentID, v["content"])
		},
	})
}

func (cc *CommentController) EditComment(ctx *gin.Context) {
	topicID, postID, commentID, ok := commentParams(ctx)
	if !ok {
		notFound(ctx, "/topics", "Comment")
		return
	}
	comment, err := cc.ownedComment(ctx, postID, commentID)
	if err != nil {
		redirectWithNotice(ctx, postURL(topicID, postID), utils.ErrorNotice(failureText(err, "Failed To Fetch Comments")))
		return
	}
	cc.updateModal(ctx, topicID, postID, commentID).Show(ctx, map[string]string{"content": comment.Content})
}

func (cc *CommentController) UpdateComment(ctx *gin.Context) {
	topicID, postID, commentID, ok := commentParams(ctx)
	if !ok {
		notFound(ctx, "/topics", "Comment")
		return
	}
	cc.updateModal(ctx, topicID, postID, commentID).Handle(ctx)
}

func (cc *CommentController) deleteModal(ctx *gin.Context, topicID, postID, commentID int64) *Modal {
	creds := credsOf(ctx)
	return NewModal(ModalConfig{
		Heading:     "Delete Comment",
		Action:      commentURL(topicID, postID, commentID) + "/delete",
		ReturnTo:    postURL(topicID, postID),
		Confirm: func() string {
			return deleteQuestion("", "this comment")
		},
		SubmitLabel: "Delete",
		Success:     "Comment Deleted Successfully!",
		Fallback:    "Failed To Delete Comment",
		Submit: func(c context.Context, _ map[string]string) error {
			if _, err := cc.ownedComment(ctx, postID, commentID); err != nil {
				return err
			}
			return cc.forum.DeleteComment(c, creds, commentID)
		},
	})
}

func (cc *CommentController) ConfirmDeleteComment(ctx *gin.Context) {
	topicID, postID, commentID, ok := commentParams(ctx)
	if !ok {
		notFound(ctx, "/topics", "Comment")
		return
	}
	if _, err := cc.ownedComment(ctx, postID, commentID); err != nil {
		redirectWithNotice(ctx, postURL(topicID, postID), utils.ErrorNotice(failureText(err, "Failed To Fetch Comments")))
		return
	}
	cc.deleteModal(ctx, topicID, postID, commentID).Show(ctx, nil)
}

func (cc *CommentController) DeleteComment(ctx *gin.Context) {
	topicID, postID, commentID, ok := commentParams(ctx)
	if !ok {
		notFound(ctx, "/topics", "Comment")
		return
	}
	cc.deleteModal(ctx, topicID, postID, commentID).Handle(ctx)
}

var (
	errCommentNotFound = errors.New("comment not found")
	errNotYourComment  = errors.New("you can only change your own comments")
)

func (cc *CommentController) ownedComment(ctx *gin.Context, postID, commentID int64) (models.Comment, error) {
	comments, err := cc.forum.FetchComments(ctx.Request.Context(), credsOf(ctx), postID)
	if err != nil {
		return models.Comment{}, err
	}
	for _, comment := range comments {
		if comment.ID != commentID {
			continue
		}
		if !identityOf(ctx).Owns(comment.UserID) {
			return models.Comment{}, errNotYourComment
		}
		return comment, nil
	}
	return models.Comment{}, errCommentNotFound
}

func commentParams(ctx *gin.Context) (int64, int64, int64, bool) {
	topicID, postID, ok := postParams(ctx)
	if !ok {
		return 0, 0, 0, false
	}
	commentID, ok := paramID(ctx, "commentID")
	if !ok {
		return 0, 0, 0, false
	}
	return topicID, postID, commentID, true
}
