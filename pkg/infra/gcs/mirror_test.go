package gcs_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/kbfetch/pkg/infra/gcs"
	"google.golang.org/api/option"
)

func TestMirror_ObjectName(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name   string
		prefix string
		want   string
	}{
		{name: "no prefix", prefix: "", want: "windows10.0-kb1-x64_202306.msu"},
		{name: "prefix", prefix: "patches/2023", want: "patches/2023/windows10.0-kb1-x64_202306.msu"},
		{name: "trailing slash", prefix: "patches/", want: "patches/windows10.0-kb1-x64_202306.msu"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := gcs.New(ctx, "bucket",
				gcs.WithPrefix(tc.prefix),
				gcs.WithEndpoint("http://localhost:4443/storage/v1/"),
			)
			gt.NoError(t, err)
			defer m.Close()

			gt.Value(t, m.ObjectName("windows10.0-kb1-x64_202306.msu")).Equal(tc.want)
		})
	}
}

func TestMirror_Upload(t *testing.T) {
	bucket := os.Getenv("TEST_KBFETCH_GCS_BUCKET")
	if bucket == "" {
		t.Skip("TEST_KBFETCH_GCS_BUCKET is not set")
	}

	ctx := context.Background()
	opts := []gcs.Option{gcs.WithPrefix("kbfetch-test/" + uuid.NewString())}
	var clientOpts []option.ClientOption
	if ep := os.Getenv("TEST_KBFETCH_GCS_ENDPOINT"); ep != "" {
		opts = append(opts, gcs.WithEndpoint(ep))
		clientOpts = append(clientOpts, option.WithEndpoint(ep), option.WithoutAuthentication())
	}

	m, err := gcs.New(ctx, bucket, opts...)
	gt.NoError(t, err)
	defer m.Close()

	local := filepath.Join(t.TempDir(), "windows10.0-kb5027219-x64_202306.msu")
	gt.NoError(t, os.WriteFile(local, []byte("package body"), 0644))

	url, err := m.Upload(ctx, local, filepath.Base(local))
	gt.NoError(t, err)
	objName := m.ObjectName(filepath.Base(local))
	gt.Value(t, url).Equal("gs://" + bucket + "/" + objName)

	client, err := storage.NewClient(ctx, clientOpts...)
	gt.NoError(t, err)
	defer client.Close()

	obj := client.Bucket(bucket).Object(objName)
	defer func() {
		gt.NoError(t, obj.Delete(ctx))
	}()

	r, err := obj.NewReader(ctx)
	gt.NoError(t, err)
	defer r.Close()
	body, err := io.ReadAll(r)
	gt.NoError(t, err)
	gt.Value(t, string(body)).Equal("package body")
}

func TestMirror_UploadMissingFile(t *testing.T) {
	ctx := context.Background()
	m, err := gcs.New(ctx, "bucket", gcs.WithEndpoint("http://localhost:4443/storage/v1/"))
	gt.NoError(t, err)
	defer m.Close()

	_, err = m.Upload(ctx, filepath.Join(t.TempDir(), "missing.msu"), "missing.msu")
	gt.Error(t, err)
}
