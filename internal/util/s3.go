package util

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"

	"github.com/minio/minio-go/v7"
)

func createBucketIfNotExists(s3 *minio.Client, bucketName string) error {
	exists, err := s3.BucketExists(context.Background(), bucketName)
	if err != nil {
		return err
	}

	if !exists {
		err = s3.MakeBucket(context.Background(), bucketName, minio.MakeBucketOptions{})
		if err != nil {
			return err
		}
	}

	return nil
}

type FileUploadOptions struct {
	// Prefixed to the object name. For example, with file name "contract.pdf"
	// and directory path "documents/3_Demo", the resulting object key is
	// "documents/3_Demo/contract.pdf".
	DirectoryPath string
	// Overrides the original file name when set.
	FileName string
	Bucket   string
	S3       *minio.Client
}

func UploadFileToS3ByFileHeader(fileHeader *multipart.FileHeader, fuo *FileUploadOptions) (minio.UploadInfo, error) {
	if err := createBucketIfNotExists(fuo.S3, fuo.Bucket); err != nil {
		return minio.UploadInfo{}, fmt.Errorf("failed to create bucket: %w", err)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return minio.UploadInfo{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	objectName := prepareObjectName(fileHeader.Filename, fuo)

	info, err := fuo.S3.PutObject(
		context.Background(),
		fuo.Bucket,
		objectName,
		file,
		fileHeader.Size,
		minio.PutObjectOptions{
			ContentType: fileHeader.Header.Get("Content-Type"),
		},
	)
	if err != nil {
		return minio.UploadInfo{}, fmt.Errorf("failed to upload file to S3: %w", err)
	}

	return info, nil
}

// UploadBytesToS3 stores an in-memory payload, used for stamped PDFs which
// never touch the local filesystem.
func UploadBytesToS3(data []byte, contentType string, fuo *FileUploadOptions) (minio.UploadInfo, error) {
	if err := createBucketIfNotExists(fuo.S3, fuo.Bucket); err != nil {
		return minio.UploadInfo{}, fmt.Errorf("failed to create bucket: %w", err)
	}

	objectName := prepareObjectName(fuo.FileName, fuo)

	info, err := fuo.S3.PutObject(
		context.Background(),
		fuo.Bucket,
		objectName,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{
			ContentType: contentType,
		},
	)
	if err != nil {
		return minio.UploadInfo{}, fmt.Errorf("failed to upload bytes to S3: %w", err)
	}

	return info, nil
}

// DownloadBytesFromS3 reads a whole stored object into memory.
func DownloadBytesFromS3(ctx context.Context, s3 *minio.Client, bucket, objectName string) ([]byte, error) {
	obj, err := s3.GetObject(ctx, bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", objectName, err)
	}
	defer obj.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(obj); err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", objectName, err)
	}

	return buf.Bytes(), nil
}

func prepareObjectName(originalName string, fuo *FileUploadOptions) string {
	objectName := originalName

	if fuo != nil {
		if fuo.FileName != "" {
			objectName = fuo.FileName
		}

		if fuo.DirectoryPath != "" {
			objectName = filepath.Join(fuo.DirectoryPath, filepath.Base(objectName))
		}
	}

	return objectName
}
