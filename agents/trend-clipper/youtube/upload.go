package youtube

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"trendclipper/internal/models"

	"google.golang.org/api/option"
	youtube "google.golang.org/api/youtube/v3"
)

const (
	maxTitleLength       = 100
	maxDescriptionLength = 5000

	// "People & Blogs" keeps uploads out of stricter category review queues.
	uploadCategoryID = "22"
)

var defaultUploadTags = []string{"shorts", "viral", "trending", "highlights"}

// Uploader publishes rendered clips to YouTube as Shorts.
type Uploader struct {
	service *youtube.Service
}

// NewUploader builds an Uploader on top of an OAuth-authenticated HTTP
// client (see NewAuthenticatedClient).
func NewUploader(ctx context.Context, httpClient *http.Client) (*Uploader, error) {
	service, err := youtube.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}
	return &Uploader{service: service}, nil
}

// Upload pushes the clip file to YouTube and returns the watch URL of the
// new video. Title and description are clamped to the API limits.
func (u *Uploader) Upload(ctx context.Context, filePath string, clip models.ClipDescriptor) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open clip file: %w", err)
	}
	defer f.Close()

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       uploadTitle(clip),
			Description: uploadDescription(clip),
			Tags:        uploadTags(clip),
			CategoryId:  uploadCategoryID,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           "public",
			SelfDeclaredMadeForKids: false,
		},
	}

	call := u.service.Videos.Insert([]string{"snippet", "status"}, video)
	response, err := call.Context(ctx).Media(f).Do()
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}

	url := WatchURL(response.Id)
	log.Printf("Uploaded clip as video %s (%s)", response.Id, url)
	return url, nil
}

func uploadTitle(clip models.ClipDescriptor) string {
	title := clip.Title
	if title == "" {
		title = clip.Caption
	}
	if title == "" {
		title = "Viral Moment"
	}
	if !strings.Contains(strings.ToLower(title), "#shorts") {
		title = title + " #Shorts"
	}
	return truncate(title, maxTitleLength)
}

func uploadDescription(clip models.ClipDescriptor) string {
	var b strings.Builder
	if clip.Subtitle != "" {
		b.WriteString(clip.Subtitle)
		b.WriteString("\n\n")
	}
	if clip.Reason != "" {
		b.WriteString(clip.Reason)
		b.WriteString("\n\n")
	}
	if clip.VideoURL != "" {
		b.WriteString("Original video: ")
		b.WriteString(clip.VideoURL)
		b.WriteString("\n\n")
	}
	if len(clip.Hashtags) > 0 {
		b.WriteString(strings.Join(clip.Hashtags, " "))
	}
	return truncate(b.String(), maxDescriptionLength)
}

func uploadTags(clip models.ClipDescriptor) []string {
	tags := make([]string, 0, len(defaultUploadTags)+len(clip.Hashtags))
	tags = append(tags, defaultUploadTags...)
	for _, h := range clip.Hashtags {
		tag := strings.TrimPrefix(h, "#")
		if tag != "" && !containsTag(tags, tag) {
			tags = append(tags, tag)
		}
	}
	return tags
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
