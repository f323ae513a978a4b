package service

import (
	"strings"

	"salespanel/database"
	"salespanel/database/model"
	"salespanel/logger"
	"salespanel/util/common"
	"salespanel/util/crypto"
)

type UserService struct{}

func (s *UserService) GetFirstUser() (*model.User, error) {
	db := database.GetDB()

	user := &model.User{}
	err := db.Model(model.User{}).
		First(user).
		Error
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CheckUser verifies login credentials and returns the user, or nil when the
// username is unknown or the password does not match.
func (s *UserService) CheckUser(username string, password string) *model.User {
	db := database.GetDB()

	user := &model.User{}
	err := db.Model(model.User{}).
		Where("username = ?", username).
		First(user).
		Error
	if database.IsNotFound(err) {
		return nil
	} else if err != nil {
		logger.Warning("check user err:", err)
		return nil
	}

	if !crypto.CheckPasswordHash(user.PasswordHash, password) {
		return nil
	}
	return user
}

func (s *UserService) ListUsers() ([]*model.User, error) {
	db := database.GetDB()

	var users []*model.User
	err := db.Model(model.User{}).
		Order("create_time DESC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UserService) CreateUser(username, password, realName string, isAdmin bool) (*model.User, error) {
	if strings.TrimSpace(username) == "" || password == "" || strings.TrimSpace(realName) == "" {
		return nil, common.NewError("用户名、密码、姓名均不能为空")
	}

	db := database.GetDB()

	var count int64
	if err := db.Model(model.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, common.NewError("用户名已存在")
	}

	hash, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
		IsAdmin:      isAdmin,
		RealName:     realName,
	}
	if err := db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes a user. Deleting the last remaining admin is rejected.
func (s *UserService) DeleteUser(id int) error {
	db := database.GetDB()

	target := &model.User{}
	err := db.Where("id = ?", id).First(target).Error
	if database.IsNotFound(err) {
		return common.NewError("用户不存在")
	} else if err != nil {
		return err
	}

	if target.IsAdmin {
		var adminCount int64
		if err := db.Model(model.User{}).Where("is_admin = ?", true).Count(&adminCount).Error; err != nil {
			return err
		}
		if adminCount <= 1 {
			return common.NewError("至少保留一个管理员")
		}
	}

	return db.Delete(&model.User{}, id).Error
}

func (s *UserService) ResetPassword(id int, newPassword string) error {
	if newPassword == "" {
		return common.NewError("新密码不能为空")
	}

	hash, err := crypto.HashPasswordAsBcrypt(newPassword)
	if err != nil {
		return err
	}

	db := database.GetDB()
	tx := db.Model(model.User{}).
		Where("id = ?", id).
		Update("password_hash", hash)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return common.NewError("用户不存在")
	}
	return nil
}

// UpdateFirstUser resets the first account's credentials, used by the CLI
// `setting` command for lockout recovery.
func (s *UserService) UpdateFirstUser(username string, password string) error {
	if username == "" {
		return common.NewError("username can not be empty")
	} else if password == "" {
		return common.NewError("password can not be empty")
	}

	hash, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		return err
	}

	db := database.GetDB()
	user := &model.User{}
	err = db.Model(model.User{}).First(user).Error
	if database.IsNotFound(err) {
		user.Username = username
		user.PasswordHash = hash
		user.IsAdmin = true
		return db.Create(user).Error
	} else if err != nil {
		return err
	}
	user.Username = username
	user.PasswordHash = hash
	return db.Save(user).Error
}
