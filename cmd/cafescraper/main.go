package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RecoveryAshes/CafeScraper/internal/core"
	"github.com/RecoveryAshes/CafeScraper/internal/exporter"
	"github.com/RecoveryAshes/CafeScraper/internal/utils"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

// 命令行参数
var (
	// 全局参数
	configFile string
	verbose    bool
	logLevel   string

	// HTTP头部参数
	headers        []string
	validateConfig bool

	// 采集参数
	pages       int
	outputPath  string
	jsonPath    string
	parquetPath string
	baseURL     string
	fetchDetail bool
	progress    bool
	mode        string
	headless    bool
	loginFirst  bool
	debugFrames bool
	ocrEnabled  bool
	fields      string

	// 加载后的配置
	appConfig *core.Config
)

var rootCmd = &cobra.Command{
	Use:   "cafescraper",
	Short: "NAVER Cafe 列表/详情采集工具",
	Long: `CafeScraper - NAVER Cafe 看板采集工具

按页采集看板列表(标题、链接、作者、日期、阅读数、点赞数),
可选进入详情页提取正文、图片、外链,并对正文图片做OCR,
结果输出为 CSV / JSON / Parquet,可进一步生成分类数据集。

示例:
  # 采集5页列表
  cafescraper --pages 5 --output data/output/naver_cafe_titles.csv

  # 同时采集详情并输出JSON
  cafescraper --detail --progress --json data/output/naver_cafe_titles.json

  # 携带cookie
  cafescraper -H "Cookie: NID_AUT=...; NID_SES=..."

  # 验证请求头配置
  cafescraper --validate-config

版本: ` + Version + `
构建时间: ` + BuildTime,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config, err := core.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}
		appConfig = config

		logConfig := config.Logging
		if logLevel != "" {
			logConfig.Level = logLevel
		}
		if verbose && logLevel == "" {
			logConfig.Level = "debug"
		}
		if err := utils.InitLogger(logConfig); err != nil {
			return fmt.Errorf("初始化日志系统失败: %w", err)
		}

		if verbose {
			utils.Info("详细模式已启用")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// 第一次中断: 取消采集,会话照常保存;第二次中断: 立即退出
		sigChan := make(chan os.Signal, 2)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigChan)
		go func() {
			sig, ok := <-sigChan
			if !ok {
				return
			}
			utils.Warnf("收到中断信号: %v, 正在保存会话并退出...", sig)
			cancel()
			if _, ok := <-sigChan; ok {
				os.Exit(130)
			}
		}()

		appConfig.MergeCLIFlags(collectFlags(cmd))
		if err := ValidateConfig(appConfig); err != nil {
			return err
		}

		headerManager, err := core.NewHeaderManager(appConfig.Crawl.Headers, headers)
		if err != nil {
			return fmt.Errorf("创建HTTP头部管理器失败: %w", err)
		}
		if validateConfig {
			return runValidateHeaders(headerManager)
		}

		start := time.Now()
		result, err := runCrawl(ctx, appConfig, headerManager)
		if err != nil {
			return fmt.Errorf("采集失败: %w", err)
		}

		printStats(result, time.Since(start))
		utils.Info("✨ 采集任务完成!")
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("CafeScraper %s\n", Version)
		fmt.Printf("构建时间: %s\n", BuildTime)
	},
}

// collectFlags 只收集用户显式给出的参数
func collectFlags(cmd *cobra.Command) core.CLIFlags {
	var f core.CLIFlags
	changed := cmd.Flags().Changed

	if changed("pages") {
		f.Pages = &pages
	}
	if changed("base-url") {
		f.BaseURL = &baseURL
	}
	if changed("detail") {
		f.Detail = &fetchDetail
	}
	if changed("headless") {
		f.Headless = &headless
	}
	if changed("mode") {
		f.Mode = &mode
	}
	if changed("debug") {
		f.Debug = &debugFrames
	}
	if changed("login") {
		f.Login = &loginFirst
	}
	if changed("ocr") {
		f.OCR = &ocrEnabled
	}
	if changed("output") {
		f.Output = &outputPath
	}
	if changed("json") {
		f.JSON = &jsonPath
	}
	if changed("parquet") {
		f.Parquet = &parquetPath
	}
	if changed("fields") {
		parsed := exporter.ParseFields(fields)
		f.Fields = &parsed
	}
	return f
}

func runValidateHeaders(hm *core.HeaderManager) error {
	utils.Info("🔍 验证HTTP头部配置...")
	if err := hm.Validate(); err != nil {
		return fmt.Errorf("配置验证失败: %w", err)
	}
	safeHeaders := hm.GetSafeHeaders()
	utils.Info("✅ 配置验证通过!")
	utils.Infof("当前有效的HTTP头部 (%d个):", len(safeHeaders))
	for name, value := range safeHeaders {
		utils.Infof("  %s: %s", name, value)
	}
	return nil
}

func init() {
	// 全局参数
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "配置文件路径 (默认搜索 ./configs/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "详细输出模式")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "日志级别 (trace|debug|info|warn|error)")

	// HTTP头部参数
	rootCmd.Flags().StringArrayVarP(&headers, "header", "H", []string{}, "自定义HTTP头部,格式: 'Name: Value',可多次指定")
	rootCmd.Flags().BoolVar(&validateConfig, "validate-config", false, "验证请求头配置后退出")

	// 采集参数
	rootCmd.Flags().IntVar(&pages, "pages", 5, "采集页数")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "data/output/naver_cafe_titles.csv", "CSV保存路径")
	rootCmd.Flags().StringVar(&jsonPath, "json", "", "JSON保存路径(可选),指定时与CSV一起保存")
	rootCmd.Flags().StringVar(&parquetPath, "parquet", "", "Parquet保存路径(可选)")
	rootCmd.Flags().StringVar(&baseURL, "base-url", "", "看板列表起始URL (默认使用配置)")
	rootCmd.Flags().BoolVar(&fetchDetail, "detail", false, "同时采集详情页(正文/图片/外链)")
	rootCmd.Flags().BoolVar(&progress, "progress", false, "显示详情页采集进度")
	rootCmd.Flags().StringVarP(&mode, "mode", "m", "dynamic", "采集模式 (dynamic|static)")
	rootCmd.Flags().BoolVar(&headless, "headless", false, "无头浏览器模式")
	rootCmd.Flags().BoolVar(&loginFirst, "login", false, "首页检查登录状态并保存会话")
	rootCmd.Flags().BoolVar(&debugFrames, "debug", false, "输出frame列表与每页条目数")
	rootCmd.Flags().BoolVar(&ocrEnabled, "ocr", true, "对详情页图片做OCR")
	rootCmd.Flags().StringVar(&fields, "fields", "", "输出列顺序,如 page,article_no,title,url")

	rootCmd.AddCommand(versionCmd, exportCmd, datasetCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}
