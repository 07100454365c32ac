// file: internals/features/school/attendance_register/scheduler/sweep_scheduler.go
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	attService "sekolahku_backend/internals/features/school/attendance_register/service"
)

// StartReconcileSweepScheduler jadwalkan sweep rekonsiliasi harian: semua
// entry yang masih absent hari itu dicoba ulang. Reconcile idempoten, jadi
// sweep aman tumpang tindih dengan trigger per-submit.
//
// Jadwal default 21:00 WIB (setelah jam pelajaran terakhir); override lewat
// env RECONCILE_SWEEP_CRON kalau perlu.
func StartReconcileSweepScheduler(svc *attService.AttendanceService, spec string) *cron.Cron {
	if spec == "" {
		spec = "0 21 * * *"
	}

	loc, err := time.LoadLocation("Asia/Jakarta")
	if err != nil {
		loc = time.UTC
	}

	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(spec, func() {
		runSweep(svc, loc)
	}); err != nil {
		log.Printf("[SWEEP] gagal daftar jadwal %q: %v", spec, err)
		return c
	}
	c.Start()
	log.Printf("[SWEEP] scheduler aktif (spec=%q)", spec)
	return c
}

func runSweep(svc *attService.AttendanceService, loc *time.Location) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	date := time.Now().In(loc).Format(attService.DateLayout)
	log.Printf("[SWEEP] mulai sweep rekonsiliasi untuk %s", date)

	promoted, err := svc.SweepDate(ctx, date)
	if err != nil {
		log.Printf("[SWEEP] sweep %s berhenti: %v", date, err)
		return
	}
	log.Printf("[SWEEP] selesai %s, %d entry dipromosikan", date, promoted)
}
