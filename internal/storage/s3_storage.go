// Package storage genera URLs prefirmadas para subir el logo y la galería
// de las empresas directamente a S3.
package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Carpetas permitidas para subidas de empresas.
const (
	CarpetaLogos   = "logos"
	CarpetaGaleria = "galeria"
)

var tiposImagenPermitidos = []string{"image/jpeg", "image/png", "image/webp"}

const tamanoMaximoImagen = 5 * 1024 * 1024 // 5 MB

type S3Storage struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

type PresignedURLResponse struct {
	UploadURL string `json:"upload_url"`
	FileURL   string `json:"file_url"`
	Key       string `json:"key"`
}

func NewS3Storage(region, bucket, accessKeyID, secretAccessKey, baseURL string) *S3Storage {
	var cfg aws.Config
	var err error

	if accessKeyID != "" && secretAccessKey != "" {
		cfg = aws.Config{
			Region: region,
			Credentials: credentials.NewStaticCredentialsProvider(
				accessKeyID,
				secretAccessKey,
				"",
			),
		}
	} else {
		cfg, err = config.LoadDefaultConfig(context.TODO(),
			config.WithRegion(region),
		)
		if err != nil {
			cfg = aws.Config{
				Region: region,
			}
		}
	}

	return &S3Storage{
		client:  s3.NewFromConfig(cfg),
		bucket:  bucket,
		baseURL: baseURL,
	}
}

// GenerarURLSubida entrega una URL prefirmada de 15 minutos para subir una
// imagen de empresa a la carpeta indicada.
func (s *S3Storage) GenerarURLSubida(empresaID uint, filename, contentType, carpeta string) (*PresignedURLResponse, error) {
	if carpeta != CarpetaLogos && carpeta != CarpetaGaleria {
		return nil, fmt.Errorf("carpeta no permitida: %s", carpeta)
	}
	if err := s.ValidarContentType(contentType); err != nil {
		return nil, err
	}

	ext := filepath.Ext(filename)
	key := fmt.Sprintf("empresas/%d/%s/%s%s", empresaID, carpeta, uuid.NewString(), ext)

	presignClient := s3.NewPresignClient(s.client)
	presignedReq, err := presignClient.PresignPutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return nil, fmt.Errorf("no se pudo generar la URL prefirmada: %w", err)
	}

	var fileURL string
	if s.baseURL != "" {
		fileURL = fmt.Sprintf("%s/%s", s.baseURL, key)
	} else {
		fileURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.client.Options().Region, key)
	}

	return &PresignedURLResponse{
		UploadURL: presignedReq.URL,
		FileURL:   fileURL,
		Key:       key,
	}, nil
}

// ValidarTamano rechaza archivos sobre el máximo permitido.
func (s *S3Storage) ValidarTamano(size int64) error {
	if size > tamanoMaximoImagen {
		return fmt.Errorf("el archivo supera el máximo de %d bytes", tamanoMaximoImagen)
	}
	return nil
}

// ValidarContentType acepta sólo los formatos de imagen soportados.
func (s *S3Storage) ValidarContentType(contentType string) error {
	for _, permitido := range tiposImagenPermitidos {
		if contentType == permitido {
			return nil
		}
	}
	return fmt.Errorf("tipo de archivo no permitido: %s (se aceptan %s)",
		contentType, strings.Join(tiposImagenPermitidos, ", "))
}
