package service

import (
	"gitlab.com/lingzhi-platform/contribution_api/model"
)

// ContributionHistory lists a user's ledger rows, newest first
func (service *Service) ContributionHistory(userID uint64, limit, page int) (*model.ContributionHistoryResponse, error) {
	records, count, err := service.repo.GetContributionRecords(userID, limit, page)
	if err != nil {
		return nil, err
	}
	response := model.ContributionHistoryResponse{
		Records: make([]model.ContributionRecordView, 0, len(records)),
		Meta: model.PagingMeta{
			Page:  page,
			Count: count,
			Limit: limit,
		},
	}
	for i := range records {
		response.Records = append(response.Records, records[i].View())
	}
	return &response, nil
}

// CommissionHistory lists the payouts a user received from their downline,
// newest first
func (service *Service) CommissionHistory(beneficiaryID uint64, limit, page int) (*model.CommissionHistoryResponse, error) {
	entries, count, err := service.repo.GetCommissionEntries(beneficiaryID, limit, page)
	if err != nil {
		return nil, err
	}
	response := model.CommissionHistoryResponse{
		Entries: make([]model.CommissionEntryView, 0, len(entries)),
		Meta: model.PagingMeta{
			Page:  page,
			Count: count,
			Limit: limit,
		},
	}
	for i := range entries {
		response.Entries = append(response.Entries, entries[i].View())
	}
	return &response, nil
}
