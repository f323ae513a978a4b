package service

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"salespanel/config"
	"salespanel/logger"
	"salespanel/util/common"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	thumbPrefix        = "thumb_"
	thumbWidth         = 200
	maxUploadSizeBytes = 5 << 20
)

var allowedImageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// FileService manages uploaded record images and their thumbnails.
type FileService struct {
	UploadDir string
}

func NewFileService() *FileService {
	return &FileService{UploadDir: config.GetUploadFolder()}
}

func (s *FileService) uploadDir() string {
	if s.UploadDir != "" {
		return s.UploadDir
	}
	return config.GetUploadFolder()
}

// SaveImage stores an uploaded image under a generated unique name and
// creates a thumbnail next to it. Thumbnail failure is non-fatal.
func (s *FileService) SaveImage(file *multipart.FileHeader) (string, error) {
	if file == nil || file.Filename == "" {
		return "", common.NewError("没有选择文件")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		return "", common.NewError("不支持的文件格式，只支持PNG、JPG、JPEG")
	}
	if file.Size > maxUploadSizeBytes {
		return "", common.NewError("文件大小超过5MB限制")
	}

	if err := os.MkdirAll(s.uploadDir(), 0o755); err != nil {
		return "", err
	}

	name := strings.ReplaceAll(uuid.New().String(), "-", "") + ext
	path := s.ImagePath(name)

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := dst.Close(); err != nil {
		return "", err
	}

	s.makeThumbnail(name, path)
	return name, nil
}

func (s *FileService) makeThumbnail(name, path string) {
	img, err := imaging.Open(path)
	if err != nil {
		logger.Warningf("创建缩略图失败 %s: %v", name, err)
		return
	}
	thumb := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)
	if err := imaging.Save(thumb, s.ThumbPath(name)); err != nil {
		logger.Warningf("保存缩略图失败 %s: %v", name, err)
	}
}

// DeleteImage removes a stored image and its thumbnail. Missing files are
// not an error.
func (s *FileService) DeleteImage(name string) {
	if name == "" {
		return
	}
	for _, path := range []string{s.ImagePath(name), s.ThumbPath(name)} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Warningf("删除文件失败 %s: %v", path, err)
		}
	}
}

func (s *FileService) ImagePath(name string) string {
	return filepath.Join(s.uploadDir(), name)
}

func (s *FileService) ThumbPath(name string) string {
	return filepath.Join(s.uploadDir(), thumbPrefix+name)
}

func (s *FileService) ImageExists(name string) bool {
	if name == "" {
		return false
	}
	_, err := os.Stat(s.ImagePath(name))
	return err == nil
}
