// record-harness drives one full service-record lifecycle against the
// in-memory store, hammering the ledger with concurrent additions to
// reproduce lost-update bugs without a database.
//
// Example:
//
//	go run ./cmd/record-harness --vehicle_id=10 --user_id=3 --workers=16 --runs=50
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"

	"bitbucket.org/mmdatafocus/garage_backend/config"
	"bitbucket.org/mmdatafocus/garage_backend/models"
	"bitbucket.org/mmdatafocus/garage_backend/utils"
	"bitbucket.org/mmdatafocus/garage_backend/workflow"
	"github.com/shopspring/decimal"
)

func main() {
	var (
		vehicleID = flag.Int("vehicle_id", 10, "vehicle_id")
		userID    = flag.Int("user_id", 3, "assigned_user_id")
		workers   = flag.Int("workers", 16, "concurrent item additions per run")
		runs      = flag.Int("runs", 20, "lifecycle repetitions")
	)
	flag.Parse()

	logger := config.GetLogger()
	catalog := models.NewMemoryCatalog()
	for i := 1; i <= *workers; i++ {
		catalog.Put(models.ServiceItemInfo{
			ID:    i,
			Name:  fmt.Sprintf("service-%d", i),
			Price: decimal.NewFromInt(int64(i * 10)),
		})
	}

	ctx := context.Background()
	ctx = utils.SetUserIdInContext(ctx, 1)
	ctx = utils.SetUsernameInContext(ctx, "record-harness")
	ctx = utils.SetRoleInContext(ctx, string(models.RoleStaff))

	for run := 1; run <= *runs; run++ {
		service := workflow.NewRecordService(models.NewMemoryRecordStore(), catalog, workflow.NewMemoryLocker(), logger)

		record, err := service.Create(ctx, &models.NewServiceRecord{
			VehicleId:      *vehicleID,
			AssignedUserId: *userID,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "run=%d create failed: %v\n", run, err)
			os.Exit(1)
		}

		var wg sync.WaitGroup
		errs := make(chan error, *workers)
		for i := 1; i <= *workers; i++ {
			wg.Add(1)
			go func(itemID int) {
				defer wg.Done()
				_, err := service.AddItem(ctx, record.ID, &models.NewServiceRecordDetail{
					ServiceItemId: itemID,
					Quantity:      1,
				})
				if err != nil && !utils.IsRetryable(err) {
					errs <- err
				}
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			fmt.Fprintf(os.Stderr, "run=%d add item failed: %v\n", run, err)
			os.Exit(1)
		}

		record, err = service.Get(ctx, record.ID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "run=%d get failed: %v\n", run, err)
			os.Exit(1)
		}
		want := models.SumDetails(record.Details)
		if len(record.Details) != *workers || !record.TotalCost.Equal(want) {
			fmt.Fprintf(os.Stderr, "run=%d LOST UPDATE: items=%d total=%s\n",
				run, len(record.Details), record.TotalCost)
			os.Exit(1)
		}

		for _, status := range []models.ServiceRecordStatus{
			models.ServiceRecordStatusInProgress,
			models.ServiceRecordStatusAwaitingPayment,
			models.ServiceRecordStatusCompleted,
		} {
			if record, err = service.Transition(ctx, record.ID, status); err != nil {
				fmt.Fprintf(os.Stderr, "run=%d transition to %s failed: %v\n", run, status, err)
				os.Exit(1)
			}
		}
		fmt.Printf("run=%d ok items=%d total=%s status=%s\n",
			run, len(record.Details), record.TotalCost, record.CurrentStatus)
	}
}
