package service

import (
	"errors"

	"gorm.io/gorm"

	refcache "gitlab.com/lingzhi-platform/contribution_api/cache/referrals"
	"gitlab.com/lingzhi-platform/contribution_api/model"
	"gitlab.com/lingzhi-platform/contribution_api/queries"
)

// LinkReferral records a write-once referrer/referee edge. The first
// referrer wins permanently and the graph is kept a forest: self links and
// links that would close a cycle are rejected. The cycle check walks the
// referrer's full chain to the root, not just the commission-bearing levels.
func (service *Service) LinkReferral(referrerID, refereeID uint64) (*model.ReferralEdge, error) {
	if referrerID == refereeID {
		return nil, ErrSelfReferral
	}

	visited := map[uint64]bool{referrerID: true}
	current := referrerID
	for {
		parentID, err := service.repo.GetReferrerID(current)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				break
			}
			return nil, err
		}
		if parentID == nil {
			break
		}
		if *parentID == refereeID {
			return nil, ErrCyclicReferral
		}
		if visited[*parentID] {
			break
		}
		visited[*parentID] = true
		current = *parentID
	}

	tx := service.repo.Conn.Begin()
	referee, err := queries.GetUserByIDForUpdate(tx, refereeID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if referee.ReferrerID != nil {
		tx.Rollback()
		return nil, ErrAlreadyReferred
	}

	edge := &model.ReferralEdge{
		ReferrerID: referrerID,
		RefereeID:  refereeID,
	}
	if err := tx.Create(edge).Error; err != nil {
		tx.Rollback()
		if isUniqueViolation(err) {
			return nil, ErrAlreadyReferred
		}
		return nil, err
	}
	if err := tx.Model(&model.User{}).Where("id = ?", refereeID).Update("referrer_id", referrerID).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	// the new edge also changes the chains of the referee's own downstream
	refcache.Flush()
	return edge, nil
}

// Ancestors resolves the upstream referrer chain of a user, level 1 first,
// stopping at maxLevels or the first organic user. Topology only: tier-based
// capping belongs to the commission engine.
func (service *Service) Ancestors(userID uint64, maxLevels int) ([]model.ReferralAncestor, error) {
	if maxLevels <= 0 || maxLevels > model.MaxReferralLevels {
		maxLevels = model.MaxReferralLevels
	}
	if maxLevels == model.MaxReferralLevels {
		if chain, ok := refcache.GetAncestors(userID); ok {
			return chain, nil
		}
	}

	chain := make([]model.ReferralAncestor, 0, maxLevels)
	current := userID
	for level := 1; level <= maxLevels; level++ {
		referrerID, err := service.repo.GetReferrerID(current)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				break
			}
			return nil, err
		}
		if referrerID == nil {
			break
		}
		chain = append(chain, model.ReferralAncestor{
			UserID: *referrerID,
			Level:  model.ReferralLevel(level),
		})
		current = *referrerID
	}

	if maxLevels == model.MaxReferralLevels {
		refcache.SetAncestors(userID, chain)
	}
	return chain, nil
}

// GetReferrals lists the direct referees of a user with their total earnings
// generated for the referrer, newest first
func (service *Service) GetReferrals(userID uint64, limit, page int) (*model.ReferralListResponse, error) {
	data := []model.ReferralListEntry{}
	var rowCount int64 = 0

	base := service.repo.ConnReader.Table("users u").
		Joins("inner join referral_edges e ON e.referee_id = u.id").
		Where("e.referrer_id = ?", userID)

	if err := base.Count(&rowCount).Error; err != nil {
		return nil, err
	}

	db := base.
		Joins("left join commission_ledger_entries c ON c.beneficiary_id = e.referrer_id AND c.source_user_id = u.id").
		Select("CONCAT (LEFT(u.email,3), '****', RIGHT(u.email,3)) as email, u.created_at as register_date, COALESCE(sum(c.commission_amount), 0) as earnings").
		Group("u.id").
		Order("register_date DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&data)
	if db.Error != nil {
		return nil, db.Error
	}

	return &model.ReferralListResponse{
		Data: data,
		Meta: model.PagingMeta{
			Page:   page,
			Count:  rowCount,
			Limit:  limit,
			Filter: make(map[string]interface{}),
		},
	}, nil
}

// GetTopInviters returns the users with the most direct referees
func (service *Service) GetTopInviters() ([]model.TopInviters, error) {
	users := make([]model.TopInviters, 0)
	limit := 10
	q := service.repo.ConnReader.
		Table("users").
		Select("count(e.referee_id) as level1_invited, users.created_at, CONCAT (LEFT(users.email,3), '****', RIGHT(users.email,3)) as email").
		Joins("inner join referral_edges e on users.id = e.referrer_id").
		Order("count(e.referee_id) DESC").
		Group("users.id").
		Limit(limit).
		Find(&users)
	if q.Error != nil {
		return users, q.Error
	}
	return users, nil
}
