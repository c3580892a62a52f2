package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"fulfillment/internal/pkg/errs"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockObjects struct {
	mock.Mock
}

func (m *mockObjects) PutObject(ctx context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*s3.PutObjectOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockPresigner struct {
	mock.Mock
}

func (m *mockPresigner) PresignGetObject(
	ctx context.Context,
	params *s3.GetObjectInput,
	optFns ...func(*s3.PresignOptions),
) (*v4.PresignedHTTPRequest, error) {
	opts := s3.PresignOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	args := m.Called(ctx, params, opts.Expires)
	if out := args.Get(0); out != nil {
		return out.(*v4.PresignedHTTPRequest), args.Error(1)
	}
	return nil, args.Error(1)
}

func newTestStore(cfg Config) (*BlobStore, *mockObjects, *mockPresigner) {
	objects := new(mockObjects)
	presigner := new(mockPresigner)
	return newBlobStore(objects, presigner, cfg), objects, presigner
}

func Test_BlobStorePutUploadsToBucket(t *testing.T) {
	store, objects, _ := newTestStore(Config{Region: "ap-south-1", Bucket: "orders"})
	objects.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return aws.ToString(in.Bucket) == "orders" &&
			aws.ToString(in.Key) == "documents/pan.pdf" &&
			aws.ToString(in.ContentType) == "application/pdf" &&
			aws.ToInt64(in.ContentLength) == 4
	})).Return(&s3.PutObjectOutput{}, nil).Once()

	url, err := store.Put(context.Background(), "documents/pan.pdf", "application/pdf", strings.NewReader("%PDF"), 4)

	require.NoError(t, err)
	assert.Equal(t, "https://orders.s3.ap-south-1.amazonaws.com/documents/pan.pdf", url)
	objects.AssertExpectations(t)
}

func Test_BlobStorePutUsesCustomEndpoint(t *testing.T) {
	store, objects, _ := newTestStore(Config{Region: "us-east-1", Bucket: "orders", Endpoint: "http://minio:9000/"})
	objects.On("PutObject", mock.Anything, mock.Anything).Return(&s3.PutObjectOutput{}, nil).Once()

	url, err := store.Put(context.Background(), "a.pdf", "", strings.NewReader("x"), 0)

	require.NoError(t, err)
	assert.Equal(t, "http://minio:9000/orders/a.pdf", url)
}

func Test_BlobStorePutWrapsUploadErrors(t *testing.T) {
	store, objects, _ := newTestStore(Config{Region: "ap-south-1", Bucket: "orders"})
	objects.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("access denied")).Once()

	_, err := store.Put(context.Background(), "a.pdf", "application/pdf", strings.NewReader("x"), 1)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func Test_BlobStorePutRejectsMissingArguments(t *testing.T) {
	store, objects, _ := newTestStore(Config{Region: "ap-south-1", Bucket: "orders"})

	_, err := store.Put(context.Background(), "", "", strings.NewReader("x"), 1)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)

	var body io.Reader
	_, err = store.Put(context.Background(), "a.pdf", "", body, 1)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)

	objects.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything)
}

func Test_BlobStoreSignedURLPassesExpiry(t *testing.T) {
	store, _, presigner := newTestStore(Config{Region: "ap-south-1", Bucket: "orders"})
	presigner.On("PresignGetObject", mock.Anything, mock.MatchedBy(func(in *s3.GetObjectInput) bool {
		return aws.ToString(in.Bucket) == "orders" && aws.ToString(in.Key) == "deliverables/return.pdf"
	}), 15*time.Minute).Return(&v4.PresignedHTTPRequest{URL: "https://signed"}, nil).Once()

	url, err := store.SignedURL(context.Background(), "deliverables/return.pdf", 15*time.Minute)

	require.NoError(t, err)
	assert.Equal(t, "https://signed", url)
	presigner.AssertExpectations(t)
}

func Test_BlobStoreSignedURLValidatesInput(t *testing.T) {
	store, _, _ := newTestStore(Config{Region: "ap-south-1", Bucket: "orders"})

	_, err := store.SignedURL(context.Background(), "", time.Minute)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = store.SignedURL(context.Background(), "a.pdf", 0)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func Test_NewBlobStoreRequiresBucketAndRegion(t *testing.T) {
	_, err := NewBlobStore(context.Background(), Config{Region: "ap-south-1"})
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = NewBlobStore(context.Background(), Config{Bucket: "orders"})
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}
