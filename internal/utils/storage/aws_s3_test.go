package storage

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjects struct {
	put     map[string][]byte
	deleted []string
}

func (f *fakeObjects) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.put[aws.ToString(params.Key)] = body
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = append(f.deleted, aws.ToString(params.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["image"][0]
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func newTestS3() (*awsS3, *fakeObjects) {
	objects := &fakeObjects{put: map[string][]byte{}}
	return &awsS3{client: objects, bucket: "pantry", region: "eu-central-1", timeout: time.Second}, objects
}

func TestUploadFile(t *testing.T) {
	s, objects := newTestS3()
	content := pngBytes(t)

	key, err := s.UploadFile("item-1", fileHeader(t, "milk.png", content), "items", AllowImage...)
	require.NoError(t, err)
	assert.Equal(t, "items/item-1.png", key)
	assert.Equal(t, content, objects.put[key])

	link := s.GetPublicLinkKey(key)
	assert.Equal(t, "https://pantry.s3.eu-central-1.amazonaws.com/items/item-1.png", link)
	assert.Equal(t, key, s.GetObjectKeyFromLink(link))
	assert.Equal(t, "", s.GetObjectKeyFromLink("https://elsewhere.example.com/x.png"))
}

func TestUploadFileRejectsNonImage(t *testing.T) {
	s, objects := newTestS3()

	_, err := s.UploadFile("item-1", fileHeader(t, "notes.txt", []byte("plain text")), "items", AllowImage...)
	assert.ErrorIs(t, err, ErrFileTypeNotAllowed)
	assert.Empty(t, objects.put)
}

func TestDeleteFile(t *testing.T) {
	s, objects := newTestS3()
	require.NoError(t, s.DeleteFile("items/item-1.png"))
	assert.Equal(t, []string{"items/item-1.png"}, objects.deleted)
}
