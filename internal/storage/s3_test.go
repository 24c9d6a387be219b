package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *S3Service {
	client := s3.New(s3.Options{
		Region: "us-east-1",
		Credentials: aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
			return aws.Credentials{AccessKeyID: "AKIDEXAMPLE", SecretAccessKey: "secret"}, nil
		}),
		BaseEndpoint: aws.String("http://127.0.0.1:9000"),
		UsePathStyle: true,
	})
	return NewS3Service(client)
}

func TestGetObjectURLPresigns(t *testing.T) {
	svc := newTestService()

	url, err := svc.GetObjectURL(context.Background(), "people", "profiles/alice/photo.png", 5*time.Minute)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "http://127.0.0.1:9000/people/profiles/alice/photo.png?"), url)
	assert.Contains(t, url, "X-Amz-Expires=300")
	assert.Contains(t, url, "X-Amz-Signature=")
}

func TestValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Put(ctx, Object{Key: "a", Body: strings.NewReader("x")})
	assert.ErrorContains(t, err, "bucket is required")

	_, err = svc.Put(ctx, Object{Bucket: "b", Key: "/", Body: strings.NewReader("x")})
	assert.ErrorContains(t, err, "key is required")

	_, err = svc.Put(ctx, Object{Bucket: "b", Key: "k"})
	assert.ErrorContains(t, err, "body is required")

	assert.ErrorContains(t, svc.Delete(ctx, "", "k"), "bucket is required")
	assert.ErrorContains(t, svc.Delete(ctx, "b", " "), "key is required")

	_, err = svc.GetObjectURL(ctx, "", "k", time.Minute)
	assert.ErrorContains(t, err, "bucket is required")
}
