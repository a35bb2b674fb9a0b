package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"imospy/domain/dto"
	"imospy/domain/event"
	"imospy/domain/platform"
	"imospy/usecase"
)

func TestPostSource_UnsupportedPlatform(t *testing.T) {
	client := new(MockScrapeCreators)
	source := usecase.NewPostSource(client, nil, nil)

	_, err := source.GetPosts(context.Background(), "myspace", "tom")

	assert.ErrorIs(t, err, usecase.ErrUnsupportedPlatform)
	client.AssertNotCalled(t, "GetInstagramProfile", mock.Anything, mock.Anything)
}

func TestPostSource_Instagram(t *testing.T) {
	client := new(MockScrapeCreators)
	var resp dto.InstagramProfileResponse
	require.NoError(t, json.Unmarshal([]byte(`{"data":{"user":{"edge_owner_to_timeline_media":{"edges":[
		{"node":{"id":"1","shortcode":"abc"}},{"node":"garbage"}]}}}}`), &resp))
	client.On("GetInstagramProfile", mock.Anything, "nasa").Return(&resp, nil)
	events := &recorder{}
	source := usecase.NewPostSource(client, nil, events)

	posts, err := source.GetPosts(context.Background(), "Instagram", "nasa")

	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, platform.Instagram, posts[0].Platform())
	assert.Equal(t, []string{event.PostDecodeFailed}, events.names())
}

func TestPostSource_ListingFailureIsAnError(t *testing.T) {
	client := new(MockScrapeCreators)
	client.On("GetTikTokVideos", mock.Anything, "alice").Return(nil, errors.New("timeout"))
	source := usecase.NewPostSource(client, nil, nil)

	posts, err := source.GetPosts(context.Background(), "tiktok", "alice")

	require.Error(t, err)
	assert.Nil(t, posts)
}

func TestPostSource_LinkedInFallsBackToCompany(t *testing.T) {
	client := new(MockScrapeCreators)
	client.On("GetLinkedInProfile", mock.Anything, "https://www.linkedin.com/in/acme").
		Return(nil, errors.New("not a profile"))
	client.On("GetLinkedInCompany", mock.Anything, "https://www.linkedin.com/company/acme").
		Return(&dto.LinkedInProfileResponse{Posts: []json.RawMessage{
			json.RawMessage(`{"url":"https://www.linkedin.com/posts/acme_launch-activity-777","text":"launch","likeCount":3}`),
		}}, nil)
	client.On("GetLinkedInPost", mock.Anything, "https://www.linkedin.com/posts/acme_launch-activity-777").
		Return(nil, errors.New("detail down"))
	events := &recorder{}
	source := usecase.NewPostSource(client, nil, events)

	posts, err := source.GetPosts(context.Background(), "linkedin", "acme")

	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "777", posts[0].ContentID())
	assert.Equal(t, "launch", posts[0].Caption())
	_, ok := events.find(event.LinkedInProfileFallback)
	assert.True(t, ok)
}

func TestPostSource_LinkedInBothFail(t *testing.T) {
	client := new(MockScrapeCreators)
	companyErr := errors.New("company missing")
	client.On("GetLinkedInProfile", mock.Anything, mock.Anything).Return(nil, errors.New("profile missing"))
	client.On("GetLinkedInCompany", mock.Anything, mock.Anything).Return(nil, companyErr)
	source := usecase.NewPostSource(client, nil, nil)

	_, err := source.GetPosts(context.Background(), "linkedin", "https://www.linkedin.com/company/acme/")

	assert.ErrorIs(t, err, companyErr)
	client.AssertCalled(t, "GetLinkedInCompany", mock.Anything, "https://www.linkedin.com/company/acme")
}

func TestPostSource_Configured(t *testing.T) {
	client := new(MockScrapeCreators)
	client.On("Configured").Return(true)

	assert.True(t, usecase.NewPostSource(client, nil, nil).Configured())
}
