package utils

import (
	"errors"
	"net/url"
	"strings"
)

// ValidateS3BucketName checks if the provided S3 bucket name is valid according to AWS naming conventions.
func ValidateS3BucketName(bucketName string) error {
	if len(bucketName) < 3 || len(bucketName) > 63 {
		return errors.New("bucket name must be between 3 and 63 characters")
	}
	if strings.Contains(bucketName, " ") {
		return errors.New("bucket name cannot contain spaces")
	}
	if !isDNSCompatible(bucketName) {
		return errors.New("bucket name must be DNS compliant")
	}
	return nil
}

// isDNSCompatible checks if the bucket name is DNS compliant.
func isDNSCompatible(name string) bool {
	// Lowercase letters, digits, dots and hyphens; alphanumeric at both ends.
	for _, char := range name {
		if !(char >= 'a' && char <= 'z') && !(char >= '0' && char <= '9') && char != '-' && char != '.' {
			return false
		}
	}
	first, last := name[0], name[len(name)-1]
	return first != '-' && first != '.' && last != '-' && last != '.'
}

// ParseEndpoint splits an S3 endpoint into the host[:port] form minio expects
// and whether TLS is requested. Bare hosts keep the given default.
func ParseEndpoint(raw string, defaultSecure bool) (string, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false, errors.New("endpoint is empty")
	}
	if !strings.Contains(raw, "://") {
		return strings.TrimSuffix(raw, "/"), defaultSecure, nil
	}

	parsedURL, err := url.Parse(raw)
	if err != nil {
		return "", false, err
	}
	switch parsedURL.Scheme {
	case "https":
		return parsedURL.Host, true, nil
	case "http":
		return parsedURL.Host, false, nil
	}
	return "", false, errors.New("endpoint scheme must be http or https")
}
