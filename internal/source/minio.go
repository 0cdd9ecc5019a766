// internal/source/minio.go
package source

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioSource lê a config de um objeto num bucket MinIO/S3.
type MinioSource struct {
	client *minio.Client
	bucket string
	object string
}

// NewMinioSourceFromEnv usa MINIO_ENDPOINT, MINIO_ACCESS_KEY,
// MINIO_SECRET_KEY, MINIO_BUCKET e MINIO_USE_SSL.
func NewMinioSourceFromEnv(object string) (*MinioSource, error) {
	endpoint := getenv("MINIO_ENDPOINT", "localhost:9000")
	accessKey := os.Getenv("MINIO_ACCESS_KEY")
	secretKey := os.Getenv("MINIO_SECRET_KEY")
	bucket := getenv("MINIO_BUCKET", "cam-config")
	useSSL := getenv("MINIO_USE_SSL", "false") == "true"

	if object == "" {
		return nil, fmt.Errorf("objeto de config não informado")
	}
	if accessKey == "" || secretKey == "" {
		return nil, fmt.Errorf("MINIO_ACCESS_KEY / MINIO_SECRET_KEY não configurados")
	}

	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("erro criando cliente MinIO: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := cli.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("erro verificando bucket %s: %w", bucket, err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s não existe", bucket)
	}

	log.Printf("[minio] conectado ao endpoint %s, bucket=%s objeto=%s", endpoint, bucket, object)

	return &MinioSource{client: cli, bucket: bucket, object: object}, nil
}

func (m *MinioSource) Load(ctx context.Context) ([]any, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, m.object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("erro buscando %s: %w", m, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("erro lendo %s: %w", m, err)
	}

	cams, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", m, err)
	}
	return cams, nil
}

func (m *MinioSource) String() string {
	return fmt.Sprintf("s3://%s/%s", m.bucket, m.object)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
