package user

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/mall/pkg/errors"
)

// DefaultBcryptCost bcrypt推荐cost（约250ms/次）
const DefaultBcryptCost = 12

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	letterRe     = regexp.MustCompile(`[a-zA-Z]`)
	digitRe      = regexp.MustCompile(`[0-9]`)
)

// Service 用户领域服务
// 负责密码加密与校验，不处理HTTP请求
type Service interface {
	// Register 用户注册
	Register(ctx context.Context, email, password, nickname string) (*User, error)

	// Login 校验邮箱和密码，返回用户
	Login(ctx context.Context, email, password string) (*User, error)
}

type service struct {
	repo       Repository
	bcryptCost int
}

// NewService 创建用户服务
func NewService(repo Repository) Service {
	return &service{repo: repo, bcryptCost: DefaultBcryptCost}
}

// NewServiceWithCost 指定bcrypt cost（测试使用bcrypt.MinCost）
func NewServiceWithCost(repo Repository, cost int) Service {
	return &service{repo: repo, bcryptCost: cost}
}

// Register 用户注册
// 业务规则：
// 1. 邮箱格式校验（统一转小写）
// 2. 密码8-20位，包含字母和数字
// 3. 邮箱唯一性由数据库UNIQUE索引保证，Repository转换为ErrEmailDuplicate
func (s *service) Register(ctx context.Context, email, password, nickname string) (*User, error) {
	email = normalizeEmail(email)
	if !emailPattern.MatchString(email) {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "邮箱格式不正确")
	}

	if err := validatePasswordStrength(password); err != nil {
		return nil, err
	}

	if n := utf8.RuneCountInString(nickname); n < 2 || n > 50 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "昵称长度应为2-50个字符")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, apperrors.Wrap(err, "密码加密失败")
	}

	u := NewUser(email, string(hashed), nickname)
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login 用户登录
func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, apperrors.ErrInvalidPassword
		}
		return nil, apperrors.Wrap(err, "密码验证失败")
	}
	return u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validatePasswordStrength 密码强度校验
func validatePasswordStrength(password string) error {
	if len(password) < 8 || len(password) > 20 {
		return apperrors.ErrWeakPassword
	}
	if !letterRe.MatchString(password) || !digitRe.MatchString(password) {
		return apperrors.ErrWeakPassword
	}
	return nil
}
