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

// TopicController serves the topics screen and its dialogs.
type TopicController struct {
	forum ForumAPI
}

func NewTopicController(forum ForumAPI) *TopicController {
	return &TopicController{forum: forum}
}

type topicRow struct {
	models.Topic
	Owned bool
}

type topicsPage struct {
	Page
	Search searchBox
	Topics []topicRow
}

// ListTopics renders every topic matching the q filter, newest first.
func (t *TopicController) ListTopics(ctx *gin.Context) {
	query := strings.TrimSpace(ctx.Query("q"))
	page := topicsPage{
		Page:   newPage(ctx, "Topics"),
		Search: searchBox{Action: "/topics", Query: query},
		Topics: []topicRow{},
	}

	topics, err := t.forum.FetchTopics(ctx.Request.Context(), credsOf(ctx))
	if err != nil {
		page.Notice = utils.ErrorNotice(failureText(err, "Failed To Fetch Topics"))
		ctx.HTML(http.StatusOK, "topics.html", page)
		return
	}

	me := identityOf(ctx)
	for _, topic := range models.FilterAndSort(topics, query) {
		page.Topics = append(page.Topics, topicRow{Topic: topic, Owned: me.Owns(topic.UserID)})
	}
	ctx.HTML(http.StatusOK, "topics.html", page)
}

func (t *TopicController) createModal(ctx *gin.Context) *Modal {
	creds := credsOf(ctx)
	return NewModal(ModalConfig{
		Heading:  "Create a New Topic",
		Action:   "/topics/new",
		ReturnTo: "/topics",
		Fields: []Field{
			{Name: "name", Label: "Title", Required: "Please Enter A Title"},
			{Name: "description", Label: "Description", Multiline: true},
		},
		SubmitLabel: "Create",
		Success:     "Topic Created Successfully!",
		Fallback:    "Failed To Create Topic",
		Submit: func(c context.Context, v map[string]string) error {
			return t.forum.AddTopic(c, creds, v["name"], v["description"])
		},
	})
}

func (t *TopicController) NewTopic(ctx *gin.Context) {
	t.createModal(ctx).Show(ctx, nil)
}

func (t *TopicController) CreateTopic(ctx *gin.Context) {
	t.createModal(ctx).Handle(ctx)
}

func (t *TopicController) updateModal(ctx *gin.Context, id int64) *Modal {
	creds := credsOf(ctx)
	return NewModal(ModalConfig{
		Heading:  "Update Topic",
		Action:   fmt.Sprintf("/topics/%d/edit", id),
		ReturnTo: "/topics",
		Fields: []Field{
			{Name: "name", Label: "Title", Required: "Please Enter A Title"},
			{Name: "description", Label: "Description", Multiline: true},
		},
		SubmitLabel: "Update",
		Success:     "Topic Updated Successfully!",
		Fallback:    "Failed To Update Topic",
		Submit: func(c context.Context, v map[string]string) error {
			if _, err := t.ownedTopic(ctx, id); err != nil {
				return err
			}
			return t.forum.UpdateTopic(c, creds, id, v["name"], v["description"])
		},
	})
}

func (t *TopicController) EditTopic(ctx *gin.Context) {
	id, ok := paramID(ctx, "topicID")
	if !ok {
		notFound(ctx, "/topics", "Topic")
		return
	}
	topic, err := t.ownedTopic(ctx, id)
	if err != nil {
		redirectWithNotice(ctx, "/topics", utils.ErrorNotice(failureText(err, "Failed To Fetch Topics")))
		return
	}
	t.updateModal(ctx, id).Show(ctx, map[string]string{"name": topic.Name, "description": topic.Description})
}

func (t *TopicController) UpdateTopic(ctx *gin.Context) {
	id, ok := paramID(ctx, "topicID")
	if !ok {
		notFound(ctx, "/topics", "Topic")
		return
	}
	t.updateModal(ctx, id).Handle(ctx)
}

func (t *TopicController) deleteModal(ctx *gin.Context, id int64, name string) *Modal {
	creds := credsOf(ctx)
	return NewModal(ModalConfig{
		Heading:  "Delete Topic",
		Action:   fmt.Sprintf("/topics/%d/delete", id),
		ReturnTo: "/topics",
		Confirm: func() string {
			return deleteQuestion(name, "this topic")
		},
		SubmitLabel: "Delete",
		Success:     "Topic Deleted Successfully!",
		Fallback:    "Failed To Delete Topic",
		Submit: func(c context.Context, _ map[string]string) error {
			topic, err := t.ownedTopic(ctx, id)
			if topic.Name != "" {
				name = topic.Name
			}
			if err != nil {
				return err
			}
			return t.forum.DeleteTopic(c, creds, id)
		},
	})
}

func (t *TopicController) ConfirmDeleteTopic(ctx *gin.Context) {
	id, ok := paramID(ctx, "topicID")
	if !ok {
		notFound(ctx, "/topics", "Topic")
		return
	}
	topic, err := t.ownedTopic(ctx, id)
	if err != nil {
		redirectWithNotice(ctx, "/topics", utils.ErrorNotice(failureText(err, "Failed To Fetch Topics")))
		return
	}
	t.deleteModal(ctx, id, topic.Name).Show(ctx, nil)
}

func (t *TopicController) DeleteTopic(ctx *gin.Context) {
	id, ok := paramID(ctx, "topicID")
	if !ok {
		notFound(ctx, "/topics", "Topic")
		return
	}
	t.deleteModal(ctx, id, "").Handle(ctx)
}

var (
	errTopicNotFound = errors.New("topic not found")
	errNotYourTopic  = errors.New("you can only change your own topics")
)

// ownedTopic finds topic id and checks the session owns it. A topic owned by
// someone else is returned along with errNotYourTopic.
func (t *TopicController) ownedTopic(ctx *gin.Context, id int64) (models.Topic, error) {
	topics, err := t.forum.FetchTopics(ctx.Request.Context(), credsOf(ctx))
	if err != nil {
		return models.Topic{}, err
	}
	topic, ok := findTopic(topics, id)
	if !ok {
		return models.Topic{}, errTopicNotFound
	}
	if !identityOf(ctx).Owns(topic.UserID) {
		return topic, errNotYourTopic
	}
	return topic, nil
}

func findTopic(topics []models.Topic, id int64) (models.Topic, bool) {
	for _, topic := range topics {
		if topic.ID == id {
			return topic, true
		}
	}
	return models.Topic{}, false
}
